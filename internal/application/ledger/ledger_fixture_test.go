package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var postingTime = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	db         *gorm.DB
	setup      *ledger.SetupService
	entries    *ledger.JournalEntryService
	invoices   *ledger.InvoiceService
	publisher  *recordingPublisher
	companyID  uuid.UUID
	customerID uuid.UUID
}

// newFixture sets up one company with a cash, receivable and revenue
// account, a GEN and a SAL journal and one customer.
func newFixture(t *testing.T, opts ...ledger.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	repos := persistence.NewGormRepositories(db)
	txScope := persistence.NewGormTransactionScope(db)
	publisher := &recordingPublisher{}

	all := append([]ledger.Option{
		ledger.WithEventPublisher(publisher),
		ledger.WithClock(func() time.Time { return postingTime }),
	}, opts...)

	f := &fixture{
		db:        db,
		setup:     ledger.NewSetupService(repos, all...),
		entries:   ledger.NewJournalEntryService(repos, txScope, all...),
		invoices:  ledger.NewInvoiceService(repos, txScope, all...),
		publisher: publisher,
	}

	company, err := f.setup.CreateCompany(ctx, ledger.CreateCompanyRequest{Name: "Acme Ltd", BaseCurrency: "USD"})
	require.NoError(t, err)
	f.companyID = company.ID

	for _, a := range []ledger.CreateAccountRequest{
		{Code: "1000", Name: "Cash", Type: "ASSET"},
		{Code: "1200", Name: "Accounts Receivable", Type: "ASSET"},
		{Code: "4000", Name: "Sales Revenue", Type: "INCOME"},
	} {
		_, err := f.setup.CreateAccount(ctx, f.companyID, a)
		require.NoError(t, err)
	}
	for _, j := range []ledger.CreateJournalRequest{
		{Code: "GEN", Name: "General", Type: "GENERAL"},
		{Code: "SAL", Name: "Sales", Type: "SALES"},
	} {
		_, err := f.setup.CreateJournal(ctx, f.companyID, j)
		require.NoError(t, err)
	}

	customer, err := f.setup.CreatePartner(ctx, f.companyID, ledger.CreatePartnerRequest{Name: "Globex", IsCustomer: true})
	require.NoError(t, err)
	f.customerID = customer.ID

	return f
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func money(s string) *decimal.Decimal {
	d := amount(s)
	return &d
}

func (f *fixture) draftEntry(t *testing.T, date string, debit, credit string) *ledger.JournalEntryResponse {
	t.Helper()
	resp, err := f.entries.Create(context.Background(), f.companyID, ledger.CreateJournalEntryRequest{
		JournalCode: "GEN",
		Date:        date,
		Memo:        "Owner contribution",
		Lines: []ledger.JournalLineRequest{
			{AccountCode: "1000", Label: "Cash in", Debit: money(debit), Credit: money("0")},
			{AccountCode: "4000", Label: "Income", Debit: money("0"), Credit: money(credit)},
		},
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) draftInvoice(t *testing.T, lines ...ledger.InvoiceLineRequest) *ledger.CustomerInvoiceResponse {
	t.Helper()
	if len(lines) == 0 {
		lines = []ledger.InvoiceLineRequest{
			{Description: "Consulting", Quantity: amount("2"), UnitPrice: amount("50"), IncomeAccountCode: "4000"},
		}
	}
	resp, err := f.invoices.Create(context.Background(), f.companyID, ledger.CreateCustomerInvoiceRequest{
		PartnerID:   f.customerID,
		InvoiceDate: "2024-03-01",
		Lines:       lines,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Count(&n).Error)
	return n
}
