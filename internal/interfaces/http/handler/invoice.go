package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
)

// InvoiceService creates, posts and reads customer invoices
type InvoiceService interface {
	Create(ctx context.Context, companyID uuid.UUID, req ledger.CreateCustomerInvoiceRequest) (*ledger.CustomerInvoiceResponse, error)
	Post(ctx context.Context, companyID, invoiceID uuid.UUID) (*ledger.PostCustomerInvoiceResponse, error)
	Get(ctx context.Context, companyID, invoiceID uuid.UUID) (*ledger.CustomerInvoiceResponse, error)
	List(ctx context.Context, companyID uuid.UUID, q ledger.ListQuery) (*shared.Paginated[ledger.CustomerInvoiceResponse], error)
}

// InvoiceHandler handles /invoices
type InvoiceHandler struct {
	BaseHandler
	service InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var req ledger.CreateCustomerInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Post handles POST /invoices/:id/post. The response carries the posted
// invoice and a summary of the journal entry it generated.
func (h *InvoiceHandler) Post(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	resp, err := h.service.Post(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	invoice, err := h.service.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var q ledger.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.List(c.Request.Context(), companyID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}
