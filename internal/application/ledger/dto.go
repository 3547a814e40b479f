package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of document dates
const DateLayout = "2006-01-02"

// ============================================
// Requests
// ============================================

// CreateCompanyRequest represents a request to create a company
type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required,max=120"`
	BaseCurrency string `json:"base_currency" binding:"omitempty,len=3"`
}

// CreateAccountRequest represents a request to create a ledger account
type CreateAccountRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=120"`
	Type string `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
}

// CreateJournalRequest represents a request to create a journal
type CreateJournalRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=120"`
	Type string `json:"type" binding:"omitempty,oneof=GENERAL SALES PURCHASE BANK CASH"`
}

// CreatePartnerRequest represents a request to create a partner
type CreatePartnerRequest struct {
	Name       string  `json:"name" binding:"required,max=200"`
	Email      *string `json:"email" binding:"omitempty,email"`
	IsCustomer bool    `json:"is_customer"`
	IsVendor   bool    `json:"is_vendor"`
}

// JournalLineRequest is one line of a new journal entry. Both amounts must be
// present; the unused side is sent as 0.
type JournalLineRequest struct {
	AccountCode string           `json:"account_code" binding:"required,max=20"`
	Label       string           `json:"label" binding:"max=255"`
	Debit       *decimal.Decimal `json:"debit" binding:"required"`
	Credit      *decimal.Decimal `json:"credit" binding:"required"`
}

// CreateJournalEntryRequest represents a request to create a draft journal entry
type CreateJournalEntryRequest struct {
	JournalCode string               `json:"journal_code" binding:"required,max=20"`
	Date        string               `json:"date" binding:"required,datetime=2006-01-02"`
	Memo        string               `json:"memo" binding:"max=500"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// InvoiceLineRequest is one line of a new customer invoice
type InvoiceLineRequest struct {
	Description       string          `json:"description" binding:"required,max=255"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	IncomeAccountCode string          `json:"income_account_code" binding:"required,max=20"`
}

// CreateCustomerInvoiceRequest represents a request to create a draft customer invoice
type CreateCustomerInvoiceRequest struct {
	PartnerID   uuid.UUID            `json:"partner_id" binding:"required"`
	InvoiceDate string               `json:"invoice_date" binding:"required,datetime=2006-01-02"`
	DueDate     *string              `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Memo        string               `json:"memo" binding:"max=500"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListQuery carries common list parameters
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status   string `form:"status"`
	Type     string `form:"type"`

	JournalCode string `form:"journal_code"`
	PartnerID   string `form:"partner_id" binding:"omitempty,uuid"`
	FromDate    string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate      string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
}

// Filter converts the query into a domain filter with defaults applied
func (q ListQuery) Filter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	return f
}

// ============================================
// Responses
// ============================================

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	BaseCurrency      string    `json:"base_currency"`
	InvoiceNextNumber int64     `json:"invoice_next_number"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToCompanyResponse converts a domain Company to its response form
func ToCompanyResponse(c *accounting.Company) CompanyResponse {
	return CompanyResponse{
		ID:                c.ID,
		Name:              c.Name,
		BaseCurrency:      c.BaseCurrency.String(),
		InvoiceNextNumber: c.InvoiceNextNumber,
		CreatedAt:         c.CreatedAt,
	}
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"is_active"`
}

// ToAccountResponse converts a domain Account to its response form
func ToAccountResponse(a *accounting.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      a.Type.String(),
		IsActive:  a.IsActive,
	}
}

// JournalResponse represents a journal in API responses
type JournalResponse struct {
	ID         uuid.UUID `json:"id"`
	CompanyID  uuid.UUID `json:"company_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	NextNumber int64     `json:"next_number"`
}

// ToJournalResponse converts a domain Journal to its response form
func ToJournalResponse(j *accounting.Journal) JournalResponse {
	return JournalResponse{
		ID:         j.ID,
		CompanyID:  j.CompanyID,
		Code:       j.Code,
		Name:       j.Name,
		Type:       string(j.Type),
		NextNumber: j.NextNumber,
	}
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID         uuid.UUID `json:"id"`
	CompanyID  uuid.UUID `json:"company_id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	IsCustomer bool      `json:"is_customer"`
	IsVendor   bool      `json:"is_vendor"`
}

// ToPartnerResponse converts a domain Partner to its response form
func ToPartnerResponse(p *accounting.Partner) PartnerResponse {
	return PartnerResponse{
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		Name:       p.Name,
		Email:      p.Email,
		IsCustomer: p.IsCustomer,
		IsVendor:   p.IsVendor,
	}
}

// JournalLineResponse represents a journal line in API responses
type JournalLineResponse struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   uuid.UUID  `json:"account_id"`
	AccountCode string     `json:"account_code"`
	PartnerID   *uuid.UUID `json:"partner_id,omitempty"`
	Label       string     `json:"label,omitempty"`
	Debit       string     `json:"debit"`
	Credit      string     `json:"credit"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID          uuid.UUID             `json:"id"`
	CompanyID   uuid.UUID             `json:"company_id"`
	JournalID   uuid.UUID             `json:"journal_id"`
	JournalCode string                `json:"journal_code"`
	Date        string                `json:"date"`
	Number      *string               `json:"number"`
	Status      string                `json:"status"`
	Memo        string                `json:"memo,omitempty"`
	PostedAt    *time.Time            `json:"posted_at,omitempty"`
	TotalDebit  string                `json:"total_debit"`
	TotalCredit string                `json:"total_credit"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ToJournalEntryResponse converts a domain JournalEntry to its response form
func ToJournalEntryResponse(e *accounting.JournalEntry) JournalEntryResponse {
	totals := e.Totals()
	resp := JournalEntryResponse{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		JournalID:   e.JournalID,
		JournalCode: e.JournalCode,
		Date:        e.Date.Format(DateLayout),
		Number:      e.Number,
		Status:      string(e.Status),
		Memo:        e.Memo,
		PostedAt:    e.PostedAt,
		TotalDebit:  totals.TotalDebit.StringFixed(2),
		TotalCredit: totals.TotalCredit.StringFixed(2),
		Lines:       make([]JournalLineResponse, 0, len(e.Lines)),
		CreatedAt:   e.CreatedAt,
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			PartnerID:   l.PartnerID,
			Label:       l.Label,
			Debit:       l.Debit.StringFixed(2),
			Credit:      l.Credit.StringFixed(2),
		})
	}
	return resp
}

// InvoiceLineResponse represents an invoice line in API responses
type InvoiceLineResponse struct {
	ID                uuid.UUID `json:"id"`
	Description       string    `json:"description"`
	Quantity          string    `json:"quantity"`
	UnitPrice         string    `json:"unit_price"`
	LineTotal         string    `json:"line_total"`
	IncomeAccountID   uuid.UUID `json:"income_account_id"`
	IncomeAccountCode string    `json:"income_account_code"`
}

// CustomerInvoiceResponse represents a customer invoice in API responses
type CustomerInvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	CompanyID      uuid.UUID             `json:"company_id"`
	PartnerID      uuid.UUID             `json:"partner_id"`
	InvoiceDate    string                `json:"invoice_date"`
	DueDate        *string               `json:"due_date,omitempty"`
	Number         *string               `json:"number"`
	Status         string                `json:"status"`
	Memo           string                `json:"memo,omitempty"`
	Currency       string                `json:"currency"`
	TotalAmount    string                `json:"total_amount"`
	JournalEntryID *uuid.UUID            `json:"journal_entry_id,omitempty"`
	PostedAt       *time.Time            `json:"posted_at,omitempty"`
	Lines          []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ToCustomerInvoiceResponse converts a domain CustomerInvoice to its response form
func ToCustomerInvoiceResponse(inv *accounting.CustomerInvoice) CustomerInvoiceResponse {
	resp := CustomerInvoiceResponse{
		ID:             inv.ID,
		CompanyID:      inv.CompanyID,
		PartnerID:      inv.PartnerID,
		InvoiceDate:    inv.InvoiceDate.Format(DateLayout),
		Number:         inv.Number,
		Status:         string(inv.Status),
		Memo:           inv.Memo,
		Currency:       inv.Currency.String(),
		TotalAmount:    inv.TotalAmount.StringFixed(2),
		JournalEntryID: inv.JournalEntryID,
		PostedAt:       inv.PostedAt,
		Lines:          make([]InvoiceLineResponse, 0, len(inv.Lines)),
		CreatedAt:      inv.CreatedAt,
	}
	if inv.DueDate != nil {
		due := inv.DueDate.Format(DateLayout)
		resp.DueDate = &due
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			ID:                l.ID,
			Description:       l.Description,
			Quantity:          l.Quantity.String(),
			UnitPrice:         l.UnitPrice.StringFixed(2),
			LineTotal:         l.LineTotal.StringFixed(2),
			IncomeAccountID:   l.IncomeAccountID,
			IncomeAccountCode: l.IncomeAccountCode,
		})
	}
	return resp
}

// JournalEntrySummary is the compact view of the entry synthesized by invoice posting
type JournalEntrySummary struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	JournalCode string    `json:"journal_code"`
	Date        string    `json:"date"`
	TotalDebit  string    `json:"total_debit"`
	TotalCredit string    `json:"total_credit"`
	LineCount   int       `json:"line_count"`
}

// PostCustomerInvoiceResponse is returned by invoice posting
type PostCustomerInvoiceResponse struct {
	Invoice      CustomerInvoiceResponse `json:"invoice"`
	JournalEntry JournalEntrySummary     `json:"journal_entry"`
}

func toJournalEntrySummary(e *accounting.JournalEntry) JournalEntrySummary {
	totals := e.Totals()
	s := JournalEntrySummary{
		ID:          e.ID,
		JournalCode: e.JournalCode,
		Date:        e.Date.Format(DateLayout),
		TotalDebit:  totals.TotalDebit.StringFixed(2),
		TotalCredit: totals.TotalCredit.StringFixed(2),
		LineCount:   len(e.Lines),
	}
	if e.Number != nil {
		s.Number = *e.Number
	}
	return s
}

// dateRange parses the optional from/to bounds of a list query
func (q ListQuery) dateRange() (from, to *time.Time, err error) {
	if q.FromDate != "" {
		d, err := parseDate("from_date", q.FromDate)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}
	if q.ToDate != "" {
		d, err := parseDate("to_date", q.ToDate)
		if err != nil {
			return nil, nil, err
		}
		to = &d
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, shared.NewValidationError("to_date must not be before from_date")
	}
	return from, to, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewValidationError("%s must be a date in YYYY-MM-DD format", field)
	}
	return d, nil
}
