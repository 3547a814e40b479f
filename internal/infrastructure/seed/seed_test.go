package seed

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSetupService(t *testing.T) *ledger.SetupService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), persistence.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	return ledger.NewSetupService(persistence.NewGormRepositories(db))
}

func repoSeedFile(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "seeds", "chart_of_accounts.yaml")
}

func TestParse(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		chart, err := Parse(strings.NewReader(`
accounts:
  - {code: "1000", name: Cash, type: ASSET}
  - {code: "4000", name: Sales, type: INCOME}
journals:
  - {code: gen, name: General, type: GENERAL}
`))
		require.NoError(t, err)
		assert.Len(t, chart.Accounts, 2)
		assert.Equal(t, "1000", chart.Accounts[0].Code)
		assert.Equal(t, "INCOME", chart.Accounts[1].Type)
		assert.Len(t, chart.Journals, 1)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		_, err := Parse(strings.NewReader("accounts:\n  - {code: \"1000\", name: Cash, kind: ASSET}\n"))
		assert.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""))
		assert.EqualError(t, err, "seed file is empty")
	})

	t.Run("duplicates and blanks are listed", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`
accounts:
  - {code: "1000", name: Cash, type: ASSET}
  - {code: "1000", name: Petty Cash, type: ASSET}
  - {code: "", name: Nameless, type: ASSET}
journals:
  - {code: GEN, name: General}
  - {code: gen, name: General again}
`))
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Len(t, de.Details, 3)
		assert.Contains(t, de.Details[0], "duplicate code 1000")
		assert.Contains(t, de.Details[2], "duplicate code GEN")
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("repository chart", func(t *testing.T) {
		chart, err := LoadFile(repoSeedFile(t))
		require.NoError(t, err)

		codes := make([]string, len(chart.Accounts))
		for i, a := range chart.Accounts {
			codes[i] = a.Code
		}
		assert.Contains(t, codes, "1200")
		assert.Contains(t, codes, "4000")

		journals := make([]string, len(chart.Journals))
		for i, j := range chart.Journals {
			journals[i] = j.Code
		}
		assert.ElementsMatch(t, []string{"GEN", "SAL"}, journals)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	setup := newSetupService(t)
	seeder := NewSeeder(setup, zap.NewNop())

	chart, err := LoadFile(repoSeedFile(t))
	require.NoError(t, err)

	first, err := seeder.Apply(ctx, "Acme Ltd", "USD", chart)
	require.NoError(t, err)
	assert.True(t, first.CompanyCreated)
	assert.Equal(t, len(chart.Accounts), first.AccountsCreated)
	assert.Equal(t, len(chart.Journals), first.JournalsCreated)
	assert.Zero(t, first.AccountsSkipped)

	second, err := seeder.Apply(ctx, "acme ltd", "USD", chart)
	require.NoError(t, err)
	assert.False(t, second.CompanyCreated)
	assert.Equal(t, first.CompanyID, second.CompanyID)
	assert.Zero(t, second.AccountsCreated)
	assert.Equal(t, len(chart.Accounts), second.AccountsSkipped)
	assert.Equal(t, len(chart.Journals), second.JournalsSkipped)

	receivable, err := setup.ListAccounts(ctx, first.CompanyID, ledger.ListQuery{Search: "Receivable"})
	require.NoError(t, err)
	require.Len(t, receivable.Items, 1)
	assert.Equal(t, "1200", receivable.Items[0].Code)

	companies, err := setup.ListCompanies(ctx, ledger.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), companies.Total)
}

func TestSeeder_ApplyTo_InvalidAccount(t *testing.T) {
	ctx := context.Background()
	setup := newSetupService(t)
	seeder := NewSeeder(setup, nil)

	company, err := setup.CreateCompany(ctx, ledger.CreateCompanyRequest{Name: "Acme Ltd", BaseCurrency: "USD"})
	require.NoError(t, err)

	_, err = seeder.ApplyTo(ctx, company.ID, &ChartOfAccounts{
		Accounts: []AccountSeed{{Code: "9000", Name: "Mystery", Type: "REVENUE"}},
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Contains(t, err.Error(), "account 9000")
}
