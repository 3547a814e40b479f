package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
)

// JournalService is the part of the setup service the journal endpoints use
type JournalService interface {
	CreateJournal(ctx context.Context, companyID uuid.UUID, req ledger.CreateJournalRequest) (*ledger.JournalResponse, error)
	GetJournal(ctx context.Context, companyID, id uuid.UUID) (*ledger.JournalResponse, error)
	ListJournals(ctx context.Context, companyID uuid.UUID, q ledger.ListQuery) (*shared.Paginated[ledger.JournalResponse], error)
}

// JournalHandler handles /journals
type JournalHandler struct {
	BaseHandler
	service JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(service JournalService) *JournalHandler {
	return &JournalHandler{service: service}
}

// Create handles POST /journals
func (h *JournalHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var req ledger.CreateJournalRequest
	if !h.BindJSON(c, &req) {
		return
	}
	journal, err := h.service.CreateJournal(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, journal)
}

// Get handles GET /journals/:id
func (h *JournalHandler) Get(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	journal, err := h.service.GetJournal(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, journal)
}

// List handles GET /journals
func (h *JournalHandler) List(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var q ledger.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.ListJournals(c.Request.Context(), companyID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}
