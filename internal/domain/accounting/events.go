package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeJournalEntryCreated    = "JournalEntryCreated"
	EventTypeJournalEntryPosted     = "JournalEntryPosted"
	EventTypeCustomerInvoiceCreated = "CustomerInvoiceCreated"
	EventTypeCustomerInvoicePosted  = "CustomerInvoicePosted"
)

// Aggregate type names
const (
	AggregateTypeJournalEntry    = "JournalEntry"
	AggregateTypeCustomerInvoice = "CustomerInvoice"
)

// JournalEntryCreatedEvent is raised when a draft entry is created
type JournalEntryCreatedEvent struct {
	shared.BaseDomainEvent
	JournalID   uuid.UUID       `json:"journal_id"`
	JournalCode string          `json:"journal_code"`
	Date        time.Time       `json:"date"`
	LineCount   int             `json:"line_count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// NewJournalEntryCreatedEvent creates a new JournalEntryCreatedEvent
func NewJournalEntryCreatedEvent(e *JournalEntry) *JournalEntryCreatedEvent {
	totals := e.Totals()
	return &JournalEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryCreated, AggregateTypeJournalEntry, e.ID, e.CompanyID),
		JournalID:       e.JournalID,
		JournalCode:     e.JournalCode,
		Date:            e.Date,
		LineCount:       len(e.Lines),
		TotalDebit:      totals.TotalDebit,
		TotalCredit:     totals.TotalCredit,
	}
}

// JournalEntryPostedEvent is raised when an entry receives its number
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	JournalID uuid.UUID       `json:"journal_id"`
	Number    string          `json:"number"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	PostedAt  time.Time       `json:"posted_at"`
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(e *JournalEntry) *JournalEntryPostedEvent {
	evt := &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryPosted, AggregateTypeJournalEntry, e.ID, e.CompanyID),
		JournalID:       e.JournalID,
		Date:            e.Date,
		Amount:          e.Totals().TotalDebit,
	}
	if e.Number != nil {
		evt.Number = *e.Number
	}
	if e.PostedAt != nil {
		evt.PostedAt = *e.PostedAt
	}
	return evt
}

// CustomerInvoiceCreatedEvent is raised when a draft invoice is created
type CustomerInvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	PartnerID   uuid.UUID       `json:"partner_id"`
	InvoiceDate time.Time       `json:"invoice_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// NewCustomerInvoiceCreatedEvent creates a new CustomerInvoiceCreatedEvent
func NewCustomerInvoiceCreatedEvent(inv *CustomerInvoice) *CustomerInvoiceCreatedEvent {
	return &CustomerInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerInvoiceCreated, AggregateTypeCustomerInvoice, inv.ID, inv.CompanyID),
		PartnerID:       inv.PartnerID,
		InvoiceDate:     inv.InvoiceDate,
		TotalAmount:     inv.TotalAmount,
		Currency:        inv.Currency.String(),
	}
}

// CustomerInvoicePostedEvent is raised when an invoice is posted with its journal entry
type CustomerInvoicePostedEvent struct {
	shared.BaseDomainEvent
	PartnerID          uuid.UUID       `json:"partner_id"`
	Number             string          `json:"number"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	JournalEntryID     uuid.UUID       `json:"journal_entry_id"`
	JournalEntryNumber string          `json:"journal_entry_number"`
	PostedAt           time.Time       `json:"posted_at"`
}

// NewCustomerInvoicePostedEvent creates a new CustomerInvoicePostedEvent
func NewCustomerInvoicePostedEvent(inv *CustomerInvoice, entry *JournalEntry) *CustomerInvoicePostedEvent {
	evt := &CustomerInvoicePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerInvoicePosted, AggregateTypeCustomerInvoice, inv.ID, inv.CompanyID),
		PartnerID:       inv.PartnerID,
		TotalAmount:     inv.TotalAmount,
		JournalEntryID:  entry.ID,
	}
	if inv.Number != nil {
		evt.Number = *inv.Number
	}
	if entry.Number != nil {
		evt.JournalEntryNumber = *entry.Number
	}
	if inv.PostedAt != nil {
		evt.PostedAt = *inv.PostedAt
	}
	return evt
}
