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

// InvoiceStatus represents the status of a customer invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusPosted    InvoiceStatus = "POSTED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPosted, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanPost returns true if the invoice can be posted from this status
func (s InvoiceStatus) CanPost() bool {
	return s == InvoiceStatusDraft
}

// QuantityScale is the number of fractional digits kept on invoice quantities
const QuantityScale int32 = 4

// InvoiceLine is a billed item. LineTotal is fixed at creation.
type InvoiceLine struct {
	ID                uuid.UUID       `json:"id"`
	Description       string          `json:"description"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LineTotal         decimal.Decimal `json:"line_total"`
	IncomeAccountID   uuid.UUID       `json:"income_account_id"`
	IncomeAccountCode string          `json:"income_account_code"`
	Sequence          int             `json:"sequence"`
}

// InvoiceLineInput carries an already-resolved invoice line
type InvoiceLineInput struct {
	Description       string
	Quantity          decimal.Decimal
	UnitPrice         decimal.Decimal
	IncomeAccountID   uuid.UUID
	IncomeAccountCode string
}

// ValidateInvoiceLine checks the value rules for the 1-based line index
func ValidateInvoiceLine(index int, description string, quantity, unitPrice decimal.Decimal) []string {
	var problems []string
	if strings.TrimSpace(description) == "" {
		problems = append(problems, fmt.Sprintf("line %d: description is required", index))
	}
	if !quantity.Round(QuantityScale).IsPositive() {
		problems = append(problems, fmt.Sprintf("line %d: quantity must be greater than zero", index))
	}
	if unitPrice.IsNegative() {
		problems = append(problems, fmt.Sprintf("line %d: unit price cannot be negative", index))
	}
	return problems
}

// CustomerInvoice is a receivable document that produces one journal entry when posted
type CustomerInvoice struct {
	shared.CompanyAggregateRoot
	PartnerID      uuid.UUID            `json:"partner_id"`
	InvoiceDate    time.Time            `json:"invoice_date"`
	DueDate        *time.Time           `json:"due_date,omitempty"`
	Number         *string              `json:"number"`
	Status         InvoiceStatus        `json:"status"`
	Memo           string               `json:"memo,omitempty"`
	Currency       valueobject.Currency `json:"currency"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	JournalEntryID *uuid.UUID           `json:"journal_entry_id,omitempty"`
	PostedAt       *time.Time           `json:"posted_at,omitempty"`
	Lines          []InvoiceLine        `json:"lines"`
}

// NewCustomerInvoice creates a DRAFT invoice for a partner of the company.
// Currency is copied from the company base currency.
func NewCustomerInvoice(company *Company, partner *Partner, invoiceDate time.Time, dueDate *time.Time, memo string, lines []InvoiceLineInput) (*CustomerInvoice, error) {
	if company == nil {
		return nil, shared.NewValidationError("company is required")
	}
	if partner == nil || !partner.BelongsTo(company.ID) {
		return nil, shared.NewNotFoundError("partner not found in company %s", company.ID)
	}
	if invoiceDate.IsZero() {
		return nil, shared.NewValidationError("invoice date is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("customer invoice must have at least one line item")
	}

	var problems []string
	invoiceDate = DateOnly(invoiceDate)
	var due *time.Time
	if dueDate != nil && !dueDate.IsZero() {
		d := DateOnly(*dueDate)
		if d.Before(invoiceDate) {
			problems = append(problems, "due date cannot be before invoice date")
		}
		due = &d
	}
	for i, l := range lines {
		problems = append(problems, ValidateInvoiceLine(i+1, l.Description, l.Quantity, l.UnitPrice)...)
		if l.IncomeAccountID == uuid.Nil {
			problems = append(problems, fmt.Sprintf("line %d: income account is required", i+1))
		}
	}
	if len(problems) > 0 {
		return nil, shared.NewValidationError("invalid customer invoice: %s", strings.Join(problems, "; ")).WithDetails(problems...)
	}

	inv := &CustomerInvoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(company.ID),
		PartnerID:            partner.ID,
		InvoiceDate:          invoiceDate,
		DueDate:              due,
		Status:               InvoiceStatusDraft,
		Memo:                 strings.TrimSpace(memo),
		Currency:             company.BaseCurrency,
		Lines:                make([]InvoiceLine, 0, len(lines)),
	}
	for i, l := range lines {
		qty := l.Quantity.Round(QuantityScale)
		price := valueobject.RoundAmount(l.UnitPrice)
		inv.Lines = append(inv.Lines, InvoiceLine{
			ID:                uuid.New(),
			Description:       strings.TrimSpace(l.Description),
			Quantity:          qty,
			UnitPrice:         price,
			LineTotal:         valueobject.RoundAmount(qty.Mul(price)),
			IncomeAccountID:   l.IncomeAccountID,
			IncomeAccountCode: l.IncomeAccountCode,
			Sequence:          i + 1,
		})
	}
	inv.TotalAmount = inv.RecomputedTotal()

	inv.AddDomainEvent(NewCustomerInvoiceCreatedEvent(inv))
	return inv, nil
}

// RecomputedTotal sums the stored line totals
func (inv *CustomerInvoice) RecomputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range inv.Lines {
		total = total.Add(l.LineTotal)
	}
	return valueobject.RoundAmount(total)
}

// IsPosted returns true if the invoice has been posted
func (inv *CustomerInvoice) IsPosted() bool {
	return inv.Status == InvoiceStatusPosted
}

// ValidateForPosting checks status, line count and total, in that order
func (inv *CustomerInvoice) ValidateForPosting() error {
	if !inv.Status.CanPost() {
		return shared.NewConflictError("customer invoice %s cannot be posted: status is %s", inv.ID, inv.Status)
	}
	if len(inv.Lines) == 0 {
		return shared.NewValidationError("customer invoice must have at least one line item")
	}
	if !inv.TotalAmount.IsPositive() {
		return shared.NewValidationError("customer invoice total must be greater than zero")
	}
	return nil
}

// CheckTotals compares the header total with the recomputed line sum
func (inv *CustomerInvoice) CheckTotals() error {
	return CheckAmountsAgree(inv.TotalAmount, inv.RecomputedTotal())
}

// PostingLines builds the receivable debit and one revenue credit per line.
// Lines with a zero total are left out. Every line carries the invoice partner.
func (inv *CustomerInvoice) PostingLines(receivable *Account) []JournalLineInput {
	partnerID := inv.PartnerID
	out := make([]JournalLineInput, 0, len(inv.Lines)+1)
	out = append(out, JournalLineInput{
		AccountID:   receivable.ID,
		AccountCode: receivable.Code,
		PartnerID:   &partnerID,
		Label:       "Customer invoice",
		Debit:       inv.TotalAmount,
		Credit:      decimal.Zero,
	})
	for _, l := range inv.Lines {
		if l.LineTotal.IsZero() {
			continue
		}
		out = append(out, JournalLineInput{
			AccountID:   l.IncomeAccountID,
			AccountCode: l.IncomeAccountCode,
			PartnerID:   &partnerID,
			Label:       l.Description,
			Debit:       decimal.Zero,
			Credit:      l.LineTotal,
		})
	}
	return out
}

// Post marks the invoice POSTED and links it to its journal entry
func (inv *CustomerInvoice) Post(number string, entry *JournalEntry, at time.Time) error {
	if err := inv.ValidateForPosting(); err != nil {
		return err
	}
	if entry == nil || !entry.IsPosted() {
		return shared.NewInternalError("customer invoice %s requires a posted journal entry", inv.ID)
	}

	entryID := entry.ID
	inv.Number = &number
	inv.Status = InvoiceStatusPosted
	inv.PostedAt = &at
	inv.JournalEntryID = &entryID
	inv.Touch(at)

	inv.AddDomainEvent(NewCustomerInvoicePostedEvent(inv, entry))
	return nil
}
