package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/infrastructure/config"
	"github.com/ledger/backend/internal/infrastructure/persistence"
	"github.com/ledger/backend/internal/interfaces/http/dto"
	"github.com/ledger/backend/internal/interfaces/http/handler"
	"github.com/ledger/backend/internal/interfaces/http/middleware"
	"github.com/ledger/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type engineFixture struct {
	engine *gin.Engine
	spans  *tracetest.SpanRecorder
}

func newEngine(t *testing.T, httpCfg config.HTTPConfig) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	repos := persistence.NewGormRepositories(db)
	txScope := persistence.NewGormTransactionScope(db)
	setup := ledger.NewSetupService(repos)

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:    zap.NewNop(),
		HTTP:      httpCfg,
		Tracing:   middleware.TracingConfig{Enabled: true, ServiceName: "ledger", TracerProvider: tp},
		Companies: setup,
	}, router.Handlers{
		Health:         handler.NewHealthHandler(sqlDB, "ledger"),
		Companies:      handler.NewCompanyHandler(setup),
		Accounts:       handler.NewAccountHandler(setup),
		Journals:       handler.NewJournalHandler(setup),
		Partners:       handler.NewPartnerHandler(setup),
		JournalEntries: handler.NewJournalEntryHandler(ledger.NewJournalEntryService(repos, txScope)),
		Invoices:       handler.NewInvoiceHandler(ledger.NewInvoiceService(repos, txScope)),
	})
	require.NoError(t, err)
	return &engineFixture{engine: engine, spans: spans}
}

func (f *engineFixture) request(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestEngine_Health(t *testing.T) {
	f := newEngine(t, config.HTTPConfig{})

	w := f.request(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestEngine_CompanyScopeNeedsACompany(t *testing.T) {
	f := newEngine(t, config.HTTPConfig{})

	w := f.request(http.MethodGet, "/api/v1/accounts", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decode(t, w).Error.Code)

	w = f.request(http.MethodGet, "/api/v1/accounts", "", middleware.HeaderCompanyID, "not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// companies are reachable without one
	w = f.request(http.MethodGet, "/api/v1/companies", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEngine_PostingFlow(t *testing.T) {
	f := newEngine(t, config.HTTPConfig{})

	w := f.request(http.MethodPost, "/api/v1/companies", `{"name":"Acme Ltd","base_currency":"USD"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	companyID := decode(t, w).Data.(map[string]any)["id"].(string)

	for _, body := range []string{
		`{"code":"1000","name":"Cash","type":"ASSET"}`,
		`{"code":"3000","name":"Owner's Equity","type":"EQUITY"}`,
	} {
		w = f.request(http.MethodPost, "/api/v1/accounts", body, middleware.HeaderCompanyID, companyID)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = f.request(http.MethodPost, "/api/v1/journals", `{"code":"GEN","name":"General"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.request(http.MethodPost, "/api/v1/journal-entries", `{
		"journal_code": "GEN",
		"date": "2024-01-02",
		"lines": [
			{"account_code": "1000", "debit": "2500.00", "credit": "0"},
			{"account_code": "3000", "debit": 0, "credit": 2500}
		]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entryID := decode(t, w).Data.(map[string]any)["id"].(string)

	w = f.request(http.MethodPost, "/api/v1/journal-entries/"+entryID+"/post", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	entry := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "POSTED", entry["status"])
	assert.Equal(t, "GEN/2024/0001", entry["number"])
	assert.Equal(t, "2500.00", entry["total_credit"])

	var postSpan sdktrace.ReadOnlySpan
	for _, s := range f.spans.Ended() {
		if s.Name() == "POST /api/v1/journal-entries/:id/post" {
			postSpan = s
		}
	}
	require.NotNil(t, postSpan)
	var company string
	for _, kv := range postSpan.Attributes() {
		if kv.Key == "company_id" {
			company = kv.Value.AsString()
		}
	}
	assert.Equal(t, companyID, company)
}

func TestEngine_Errors(t *testing.T) {
	f := newEngine(t, config.HTTPConfig{MaxBodySize: 64})

	t.Run("unknown route", func(t *testing.T) {
		w := f.request(http.MethodGet, "/api/v1/ledgers", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decode(t, w).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := f.request(http.MethodDelete, "/api/v1/companies", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("x", 100) + `"}`
		w := f.request(http.MethodPost, "/api/v1/companies", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeTooLarge, decode(t, w).Error.Code)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		w := f.request(http.MethodGet, "/api/v1/companies/"+uuid.NewString(), "", middleware.HeaderRequestID, "abc-123")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "abc-123", w.Header().Get(middleware.HeaderRequestID))
		assert.Equal(t, "abc-123", decode(t, w).Error.RequestID)
	})
}

func TestEngine_CORS(t *testing.T) {
	f := newEngine(t, config.HTTPConfig{CORSAllowOrigins: []string{"https://books.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/companies", nil)
	req.Header.Set("Origin", "https://books.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://books.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
