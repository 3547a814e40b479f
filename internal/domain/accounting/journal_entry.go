package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EntryStatus represents the status of a journal entry
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "DRAFT"
	EntryStatusPosted EntryStatus = "POSTED"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	return s == EntryStatusDraft || s == EntryStatusPosted
}

// CanPost returns true if the entry can be posted from this status
func (s EntryStatus) CanPost() bool {
	return s == EntryStatusDraft
}

// MinJournalLines is the minimum number of lines of any journal entry
const MinJournalLines = 2

// JournalLine is one debit or credit movement of an entry
type JournalLine struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	AccountCode string          `json:"account_code"`
	PartnerID   *uuid.UUID      `json:"partner_id,omitempty"`
	Label       string          `json:"label,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Sequence    int             `json:"sequence"`
}

// JournalLineInput carries an already-resolved line for entry construction
type JournalLineInput struct {
	AccountID   uuid.UUID
	AccountCode string
	PartnerID   *uuid.UUID
	Label       string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// ValidateLineAmounts checks the one-sided amount rule for the 1-based line index.
// Both amounts must be non-negative and exactly one must be positive.
func ValidateLineAmounts(index int, debit, credit decimal.Decimal) []string {
	debit = valueobject.RoundAmount(debit)
	credit = valueobject.RoundAmount(credit)

	var problems []string
	if debit.IsNegative() {
		problems = append(problems, fmt.Sprintf("line %d: debit cannot be negative", index))
	}
	if credit.IsNegative() {
		problems = append(problems, fmt.Sprintf("line %d: credit cannot be negative", index))
	}
	if len(problems) > 0 {
		return problems
	}
	switch {
	case debit.IsPositive() && credit.IsPositive():
		problems = append(problems, fmt.Sprintf("line %d: cannot have both debit and credit", index))
	case !debit.IsPositive() && !credit.IsPositive():
		problems = append(problems, fmt.Sprintf("line %d: either debit or credit must be greater than zero", index))
	}
	return problems
}

// JournalEntry is the atomic accounting record. It is numbered exactly once, when posted.
type JournalEntry struct {
	shared.CompanyAggregateRoot
	JournalID   uuid.UUID     `json:"journal_id"`
	JournalCode string        `json:"journal_code"`
	Date        time.Time     `json:"date"`
	Number      *string       `json:"number"`
	Status      EntryStatus   `json:"status"`
	Memo        string        `json:"memo,omitempty"`
	PostedAt    *time.Time    `json:"posted_at,omitempty"`
	Lines       []JournalLine `json:"lines"`
}

// NewJournalEntry creates a DRAFT entry in the given journal. Balance is not
// checked here; a draft may be unbalanced until it is posted.
func NewJournalEntry(journal *Journal, date time.Time, memo string, lines []JournalLineInput) (*JournalEntry, error) {
	if journal == nil {
		return nil, shared.NewValidationError("journal is required")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("entry date is required")
	}
	if len(lines) < MinJournalLines {
		return nil, shared.NewValidationError("journal entry must have at least %d lines", MinJournalLines)
	}

	var problems []string
	for i, l := range lines {
		if l.AccountID == uuid.Nil {
			problems = append(problems, fmt.Sprintf("line %d: account is required", i+1))
		}
		problems = append(problems, ValidateLineAmounts(i+1, l.Debit, l.Credit)...)
	}
	if len(problems) > 0 {
		return nil, shared.NewValidationError("invalid journal entry: %s", strings.Join(problems, "; ")).WithDetails(problems...)
	}

	entry := &JournalEntry{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(journal.CompanyID),
		JournalID:            journal.ID,
		JournalCode:          journal.Code,
		Date:                 DateOnly(date),
		Status:               EntryStatusDraft,
		Memo:                 strings.TrimSpace(memo),
		Lines:                make([]JournalLine, 0, len(lines)),
	}
	for i, l := range lines {
		entry.Lines = append(entry.Lines, JournalLine{
			ID:          uuid.New(),
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			PartnerID:   l.PartnerID,
			Label:       strings.TrimSpace(l.Label),
			Debit:       valueobject.RoundAmount(l.Debit),
			Credit:      valueobject.RoundAmount(l.Credit),
			Sequence:    i + 1,
		})
	}

	entry.AddDomainEvent(NewJournalEntryCreatedEvent(entry))
	return entry, nil
}

// BalanceLines returns the entry's lines in the form the balance check consumes
func (e *JournalEntry) BalanceLines() []DebitCredit {
	out := make([]DebitCredit, len(e.Lines))
	for i, l := range e.Lines {
		out[i] = DebitCredit{Debit: l.Debit, Credit: l.Credit}
	}
	return out
}

// Totals returns the debit and credit sums of the entry
func (e *JournalEntry) Totals() BalanceTotals {
	return SumLines(e.BalanceLines())
}

// IsPosted returns true if the entry has been posted
func (e *JournalEntry) IsPosted() bool {
	return e.Status == EntryStatusPosted
}

// ValidateForPosting checks status, line count and balance, in that order
func (e *JournalEntry) ValidateForPosting() error {
	if !e.Status.CanPost() {
		return shared.NewConflictError("journal entry %s cannot be posted: status is %s", e.ID, e.Status)
	}
	if len(e.Lines) < MinJournalLines {
		return shared.NewValidationError("journal entry must have at least %d lines", MinJournalLines)
	}
	_, err := CheckBalance(e.BalanceLines())
	return err
}

// Post assigns the entry number and moves the entry to POSTED.
// The number must have been allocated from the entry's journal.
func (e *JournalEntry) Post(number string, at time.Time) error {
	if err := e.ValidateForPosting(); err != nil {
		return err
	}
	if strings.TrimSpace(number) == "" {
		return shared.NewInternalError("cannot post journal entry %s without a number", e.ID)
	}

	e.Number = &number
	e.Status = EntryStatusPosted
	e.PostedAt = &at
	e.Touch(at)

	e.AddDomainEvent(NewJournalEntryPostedEvent(e))
	return nil
}

// NewPostedJournalEntry builds an entry that never passes through DRAFT.
// The journal counter is advanced as part of the call.
func NewPostedJournalEntry(journal *Journal, date time.Time, memo string, lines []JournalLineInput, at time.Time) (*JournalEntry, error) {
	entry, err := NewJournalEntry(journal, date, memo, lines)
	if err != nil {
		return nil, err
	}
	if err := entry.ValidateForPosting(); err != nil {
		return nil, err
	}
	number, err := journal.AllocateEntryNumber(entry.Date)
	if err != nil {
		return nil, err
	}
	if err := entry.Post(number, at); err != nil {
		return nil, err
	}
	return entry, nil
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
