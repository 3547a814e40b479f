package persistence

import (
	"context"

	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/accounting"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepositories(tx))
	})
}

// GormRepositories bundles the ledger repositories over one *gorm.DB, which is
// either the root connection or an open transaction.
type GormRepositories struct {
	db *gorm.DB
}

// NewGormRepositories creates repositories bound to db
func NewGormRepositories(db *gorm.DB) *GormRepositories {
	return &GormRepositories{db: db}
}

// CompanyRepo returns the company repository.
func (r *GormRepositories) CompanyRepo() accounting.CompanyRepository {
	return NewGormCompanyRepository(r.db)
}

// AccountRepo returns the account repository.
func (r *GormRepositories) AccountRepo() accounting.AccountRepository {
	return NewGormAccountRepository(r.db)
}

// JournalRepo returns the journal repository.
func (r *GormRepositories) JournalRepo() accounting.JournalRepository {
	return NewGormJournalRepository(r.db)
}

// PartnerRepo returns the partner repository.
func (r *GormRepositories) PartnerRepo() accounting.PartnerRepository {
	return NewGormPartnerRepository(r.db)
}

// EntryRepo returns the journal entry repository.
func (r *GormRepositories) EntryRepo() accounting.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.db)
}

// InvoiceRepo returns the customer invoice repository.
func (r *GormRepositories) InvoiceRepo() accounting.CustomerInvoiceRepository {
	return NewGormCustomerInvoiceRepository(r.db)
}

// Ensure GormTransactionScope implements TransactionScope
var _ ledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure GormRepositories implements TransactionalRepositories
var _ ledger.TransactionalRepositories = (*GormRepositories)(nil)
