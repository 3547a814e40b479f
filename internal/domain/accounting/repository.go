package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindByIDForUpdate finds a company and holds a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindFirst returns the oldest company by creation time
	FindFirst(ctx context.Context) (*Company, error)

	// FindAll lists companies
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)

	// Count counts companies matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error
}

// AccountFilter defines filtering options for account queries
type AccountFilter struct {
	shared.Filter
	Type     *AccountType // Filter by account type
	IsActive *bool        // Filter by active flag
}

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByID finds an account by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by its code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Account, error)

	// FindByCodes returns the accounts whose codes are in the list; missing codes are skipped
	FindByCodes(ctx context.Context, companyID uuid.UUID, codes []string) ([]Account, error)

	// FindFirstByNameContains returns the first account of the given type whose
	// name contains fragment, case-insensitively, ordered by code
	FindFirstByNameContains(ctx context.Context, companyID uuid.UUID, fragment string, accountType AccountType) (*Account, error)

	// FindAll lists accounts of a company
	FindAll(ctx context.Context, companyID uuid.UUID, filter AccountFilter) ([]Account, error)

	// Count counts accounts of a company
	Count(ctx context.Context, companyID uuid.UUID, filter AccountFilter) (int64, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error
}

// JournalRepository defines the interface for journal persistence
type JournalRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Journal, error)
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Journal, error)

	// FindByIDForUpdate finds a journal and holds a row lock on its counter
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*Journal, error)

	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Journal, error)
	Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, journal *Journal) error
}

// PartnerFilter defines filtering options for partner queries
type PartnerFilter struct {
	shared.Filter
	IsCustomer *bool
	IsVendor   *bool
}

// PartnerRepository defines the interface for partner persistence
type PartnerRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Partner, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter PartnerFilter) ([]Partner, error)
	Count(ctx context.Context, companyID uuid.UUID, filter PartnerFilter) (int64, error)
	Save(ctx context.Context, partner *Partner) error
}

// JournalEntryFilter defines filtering options for journal entry queries
type JournalEntryFilter struct {
	shared.Filter
	JournalID *uuid.UUID   // Filter by journal
	Status    *EntryStatus // Filter by status
	FromDate  *time.Time   // Filter by entry date range start
	ToDate    *time.Time   // Filter by entry date range end
}

// JournalEntryRepository defines the interface for journal entry persistence.
// Entries are always loaded and saved together with their lines.
type JournalEntryRepository interface {
	// FindByID finds an entry with its lines
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*JournalEntry, error)

	// FindByIDForUpdate finds an entry with its lines and locks the entry row
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*JournalEntry, error)

	// FindAll lists entries without lines
	FindAll(ctx context.Context, companyID uuid.UUID, filter JournalEntryFilter) ([]JournalEntry, error)

	// Count counts entries matching the filter
	Count(ctx context.Context, companyID uuid.UUID, filter JournalEntryFilter) (int64, error)

	// Save creates or updates an entry and replaces its lines
	Save(ctx context.Context, entry *JournalEntry) error
}

// CustomerInvoiceFilter defines filtering options for invoice queries
type CustomerInvoiceFilter struct {
	shared.Filter
	PartnerID *uuid.UUID
	Status    *InvoiceStatus
	FromDate  *time.Time
	ToDate    *time.Time
}

// CustomerInvoiceRepository defines the interface for customer invoice persistence.
// Invoices are always loaded and saved together with their lines.
type CustomerInvoiceRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*CustomerInvoice, error)
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*CustomerInvoice, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter CustomerInvoiceFilter) ([]CustomerInvoice, error)
	Count(ctx context.Context, companyID uuid.UUID, filter CustomerInvoiceFilter) (int64, error)
	Save(ctx context.Context, invoice *CustomerInvoice) error
}
