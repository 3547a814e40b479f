package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
)

// AccountService is the part of the setup service the account endpoints use
type AccountService interface {
	CreateAccount(ctx context.Context, companyID uuid.UUID, req ledger.CreateAccountRequest) (*ledger.AccountResponse, error)
	GetAccount(ctx context.Context, companyID, id uuid.UUID) (*ledger.AccountResponse, error)
	ListAccounts(ctx context.Context, companyID uuid.UUID, q ledger.ListQuery) (*shared.Paginated[ledger.AccountResponse], error)
}

// AccountHandler handles /accounts
type AccountHandler struct {
	BaseHandler
	service AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(service AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var req ledger.CreateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	account, err := h.service.CreateAccount(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	account, err := h.service.GetAccount(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// List handles GET /accounts. The type query parameter filters by account type.
func (h *AccountHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var q ledger.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.ListAccounts(c.Request.Context(), companyID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}
