package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/infrastructure/persistence"
	"github.com/ledger/backend/internal/interfaces/http/dto"
	"github.com/ledger/backend/internal/interfaces/http/handler"
	"github.com/ledger/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// envelope mirrors dto.Response with a typed payload
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

type apiServer struct {
	engine    *gin.Engine
	setup     *ledger.SetupService
	companyID uuid.UUID
}

// newAPIServer serves the ledger endpoints over an in-memory sqlite database
// holding one company with a small chart of accounts and one customer.
func newAPIServer(t *testing.T) *apiServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	repos := persistence.NewGormRepositories(db)
	txScope := persistence.NewGormTransactionScope(db)
	setup := ledger.NewSetupService(repos)

	companies := handler.NewCompanyHandler(setup)
	accounts := handler.NewAccountHandler(setup)
	journals := handler.NewJournalHandler(setup)
	partners := handler.NewPartnerHandler(setup)
	entries := handler.NewJournalEntryHandler(ledger.NewJournalEntryService(repos, txScope))
	invoices := handler.NewInvoiceHandler(ledger.NewInvoiceService(repos, txScope))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	api.POST("/companies", companies.Create)
	api.GET("/companies", companies.List)
	api.GET("/companies/:id", companies.Get)

	scoped := api.Group("", middleware.CompanyScope(setup, uuid.Nil))
	scoped.POST("/accounts", accounts.Create)
	scoped.GET("/accounts", accounts.List)
	scoped.GET("/accounts/:id", accounts.Get)
	scoped.POST("/journals", journals.Create)
	scoped.GET("/journals", journals.List)
	scoped.GET("/journals/:id", journals.Get)
	scoped.POST("/partners", partners.Create)
	scoped.GET("/partners", partners.List)
	scoped.GET("/partners/:id", partners.Get)
	scoped.POST("/journal-entries", entries.Create)
	scoped.GET("/journal-entries", entries.List)
	scoped.GET("/journal-entries/:id", entries.Get)
	scoped.POST("/journal-entries/:id/post", entries.Post)
	scoped.POST("/invoices", invoices.Create)
	scoped.GET("/invoices", invoices.List)
	scoped.GET("/invoices/:id", invoices.Get)
	scoped.POST("/invoices/:id/post", invoices.Post)

	s := &apiServer{engine: engine, setup: setup}

	var company envelope[ledger.CompanyResponse]
	w := s.do(t, http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme Ltd", "base_currency": "USD"}, &company)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	s.companyID = company.Data.ID

	for _, a := range []map[string]any{
		{"code": "1000", "name": "Cash", "type": "ASSET"},
		{"code": "1200", "name": "Accounts Receivable", "type": "ASSET"},
		{"code": "4000", "name": "Sales Revenue", "type": "INCOME"},
	} {
		w := s.do(t, http.MethodPost, "/api/v1/accounts", a, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	for _, j := range []map[string]any{
		{"code": "GEN", "name": "General", "type": "GENERAL"},
		{"code": "SAL", "name": "Sales", "type": "SALES"},
	} {
		w := s.do(t, http.MethodPost, "/api/v1/journals", j, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	return s
}

// do sends body as JSON and decodes the response into out when out is not nil
func (s *apiServer) do(t *testing.T, method, path string, body any, out any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}

func (s *apiServer) createCustomer(t *testing.T) uuid.UUID {
	t.Helper()
	var partner envelope[ledger.PartnerResponse]
	w := s.do(t, http.MethodPost, "/api/v1/partners", map[string]any{"name": "Globex", "is_customer": true}, &partner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return partner.Data.ID
}

func (s *apiServer) createEntry(t *testing.T, debit, credit string) ledger.JournalEntryResponse {
	t.Helper()
	var entry envelope[ledger.JournalEntryResponse]
	w := s.do(t, http.MethodPost, "/api/v1/journal-entries", map[string]any{
		"journal_code": "GEN",
		"date":         "2024-03-10",
		"memo":         "Owner contribution",
		"lines": []map[string]any{
			{"account_code": "1000", "debit": debit, "credit": "0"},
			{"account_code": "4000", "debit": "0", "credit": credit},
		},
	}, &entry)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return entry.Data
}
