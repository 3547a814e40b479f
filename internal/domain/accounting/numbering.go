package accounting

import (
	"fmt"
	"time"

	"github.com/ledger/backend/internal/domain/shared"
)

// NumberSequenceWidth is the minimum zero-padded width of the sequence part
const NumberSequenceWidth = 4

// FormatDocumentNumber renders PREFIX/YEAR/NNNN. The year comes from the
// document's own date; the sequence is never reset per year.
func FormatDocumentNumber(prefix string, documentDate time.Time, sequence int64) string {
	return fmt.Sprintf("%s/%04d/%0*d", prefix, documentDate.Year(), NumberSequenceWidth, sequence)
}

// AllocateNumber reserves the current counter value of a numbering scope.
// It returns the formatted number and the value the counter must advance to.
// Callers persist the advanced counter in the same transaction that holds the
// scope row lock, so an aborted transaction consumes nothing.
func AllocateNumber(prefix string, documentDate time.Time, current int64) (string, int64, error) {
	if prefix == "" {
		return "", 0, shared.NewValidationError("numbering prefix is required")
	}
	if documentDate.IsZero() {
		return "", 0, shared.NewValidationError("document date is required for numbering")
	}
	if current < 1 {
		return "", 0, shared.NewInternalError("numbering counter for %s is corrupt: %d", prefix, current)
	}
	return FormatDocumentNumber(prefix, documentDate, current), current + 1, nil
}
