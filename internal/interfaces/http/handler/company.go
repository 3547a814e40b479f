package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
)

// CompanyService is the part of the setup service the company endpoints use
type CompanyService interface {
	CreateCompany(ctx context.Context, req ledger.CreateCompanyRequest) (*ledger.CompanyResponse, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*ledger.CompanyResponse, error)
	ListCompanies(ctx context.Context, q ledger.ListQuery) (*shared.Paginated[ledger.CompanyResponse], error)
}

// CompanyHandler handles /companies. Companies are not company-scoped.
type CompanyHandler struct {
	BaseHandler
	service CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(service CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// Create handles POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req ledger.CreateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	company, err := h.service.CreateCompany(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// Get handles GET /companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	company, err := h.service.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// List handles GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	var q ledger.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.ListCompanies(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}
