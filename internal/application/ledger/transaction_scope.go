package ledger

import (
	"context"

	"github.com/ledger/backend/internal/domain/accounting"
)

// TransactionScope runs a unit of work against ledger repositories that share
// one database transaction. Row locks taken through the repositories are held
// until the function returns.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Posting paths must lock the numbering scope first: the Journal row for entry
// numbers, then the Company row for invoice numbers.
type TransactionalRepositories interface {
	CompanyRepo() accounting.CompanyRepository
	AccountRepo() accounting.AccountRepository
	JournalRepo() accounting.JournalRepository
	PartnerRepo() accounting.PartnerRepository
	EntryRepo() accounting.JournalEntryRepository
	InvoiceRepo() accounting.CustomerInvoiceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

// Ensure NoOpTransactionScope implements TransactionScope
var _ TransactionScope = (*NoOpTransactionScope)(nil)
