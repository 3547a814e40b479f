package ledger

import (
	"context"
	"fmt"

	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PostingAuditHandler writes an audit log line for every posted document
type PostingAuditHandler struct {
	logger *zap.Logger
}

// NewPostingAuditHandler creates a new PostingAuditHandler
func NewPostingAuditHandler(logger *zap.Logger) *PostingAuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostingAuditHandler{logger: logger.Named("audit")}
}

// EventTypes returns the event types this handler is interested in
func (h *PostingAuditHandler) EventTypes() []string {
	return []string{
		accounting.EventTypeJournalEntryPosted,
		accounting.EventTypeCustomerInvoicePosted,
	}
}

// Handle logs the posted document
func (h *PostingAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *accounting.JournalEntryPostedEvent:
		h.logger.Info("journal entry posted",
			zap.String("event_id", e.EventID().String()),
			zap.String("company_id", e.CompanyID().String()),
			zap.String("entry_id", e.AggregateID().String()),
			zap.String("number", e.Number),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.Time("posted_at", e.PostedAt),
		)
	case *accounting.CustomerInvoicePostedEvent:
		h.logger.Info("customer invoice posted",
			zap.String("event_id", e.EventID().String()),
			zap.String("company_id", e.CompanyID().String()),
			zap.String("invoice_id", e.AggregateID().String()),
			zap.String("number", e.Number),
			zap.String("journal_entry_number", e.JournalEntryNumber),
			zap.String("total", e.TotalAmount.StringFixed(2)),
		)
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

// Ensure PostingAuditHandler implements shared.EventHandler
var _ shared.EventHandler = (*PostingAuditHandler)(nil)
