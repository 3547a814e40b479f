package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
)

// JournalEntryService creates, posts and reads journal entries
type JournalEntryService interface {
	Create(ctx context.Context, companyID uuid.UUID, req ledger.CreateJournalEntryRequest) (*ledger.JournalEntryResponse, error)
	Post(ctx context.Context, companyID, entryID uuid.UUID) (*ledger.JournalEntryResponse, error)
	Get(ctx context.Context, companyID, entryID uuid.UUID) (*ledger.JournalEntryResponse, error)
	List(ctx context.Context, companyID uuid.UUID, q ledger.ListQuery) (*shared.Paginated[ledger.JournalEntryResponse], error)
}

// JournalEntryHandler handles /journal-entries
type JournalEntryHandler struct {
	BaseHandler
	service JournalEntryService
}

// NewJournalEntryHandler creates a new JournalEntryHandler
func NewJournalEntryHandler(service JournalEntryService) *JournalEntryHandler {
	return &JournalEntryHandler{service: service}
}

// Create handles POST /journal-entries. The entry is stored as a draft and
// need not balance yet.
func (h *JournalEntryHandler) Create(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	var req ledger.CreateJournalEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.Create(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Post handles POST /journal-entries/:id/post
func (h *JournalEntryHandler) Post(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	entry, err := h.service.Post(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Get handles GET /journal-entries/:id
func (h *JournalEntryHandler) Get(c *gin.Context) {
	companyID, ok := h.CompanyID(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	entry, err := h.service.Get(c.Request.Context(), companyID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// List handles GET /journal-entries with status, journal_code, from_date and to_date filters
func (h *JournalEntryHandler) List(c *gin.Context) {
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
