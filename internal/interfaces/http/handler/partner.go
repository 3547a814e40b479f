package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
)

// PartnerService is the part of the setup service the partner endpoints use
type PartnerService interface {
	CreatePartner(ctx context.Context, companyID uuid.UUID, req ledger.CreatePartnerRequest) (*ledger.PartnerResponse, error)
	GetPartner(ctx context.Context, companyID, id uuid.UUID) (*ledger.PartnerResponse, error)
	ListPartners(ctx context.Context, companyID uuid.UUID, q ledger.ListQuery) (*shared.Paginated[ledger.PartnerResponse], error)
}

// PartnerHandler handles /partners
type PartnerHandler struct {
	BaseHandler
	service PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(service PartnerService) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// Create handles POST /partners
func (h *PartnerHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var req ledger.CreatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	partner, err := h.service.CreatePartner(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, partner)
}

// Get handles GET /partners/:id
func (h *PartnerHandler) Get(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	partner, err := h.service.GetPartner(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, partner)
}

// List handles GET /partners. The type query parameter is customer or vendor.
func (h *PartnerHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var q ledger.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.ListPartners(c.Request.Context(), companyID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}
