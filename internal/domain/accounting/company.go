package accounting

import (
	"strings"
	"time"

	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/domain/shared/valueobject"
)

// InvoiceNumberPrefix prefixes every customer invoice number
const InvoiceNumberPrefix = "INV"

// Company is the tenant root. It owns the invoice numbering counter.
type Company struct {
	shared.BaseAggregateRoot
	Name              string               `json:"name"`
	BaseCurrency      valueobject.Currency `json:"base_currency"`
	InvoiceNextNumber int64                `json:"invoice_next_number"`
}

// NewCompany creates a company with its invoice counter at 1
func NewCompany(name string, currency string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("company name is required")
	}
	if len(name) > 120 {
		return nil, shared.NewValidationError("company name cannot exceed 120 characters")
	}
	cur := valueobject.DefaultCurrency
	if strings.TrimSpace(currency) != "" {
		parsed, err := valueobject.ParseCurrency(currency)
		if err != nil {
			return nil, shared.NewValidationError("invalid base currency: %s", err.Error())
		}
		cur = parsed
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		BaseCurrency:      cur,
		InvoiceNextNumber: 1,
	}, nil
}

// AllocateInvoiceNumber formats the next invoice number for the given invoice
// date and advances the counter. The caller must hold the row lock.
// An empty prefix falls back to InvoiceNumberPrefix.
func (c *Company) AllocateInvoiceNumber(prefix string, invoiceDate time.Time) (string, error) {
	if prefix == "" {
		prefix = InvoiceNumberPrefix
	}
	number, next, err := AllocateNumber(prefix, invoiceDate, c.InvoiceNextNumber)
	if err != nil {
		return "", err
	}
	c.InvoiceNextNumber = next
	c.Touch(time.Now())
	return number, nil
}
