package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	c, err := NewCompany("  Acme  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, valueobject.DefaultCurrency, c.BaseCurrency)
	assert.Equal(t, int64(1), c.InvoiceNextNumber)

	_, err = NewCompany("", "USD")
	assert.True(t, shared.IsValidation(err))

	_, err = NewCompany("Acme", "DOLLARS")
	assert.True(t, shared.IsValidation(err))
}

func TestNewAccount(t *testing.T) {
	companyID := uuid.New()

	a, err := NewAccount(companyID, " 4000 ", "Sales", AccountTypeIncome)
	require.NoError(t, err)
	assert.Equal(t, "4000", a.Code)
	assert.True(t, a.IsActive)
	assert.True(t, a.BelongsTo(companyID))

	_, err = NewAccount(companyID, "123456789012345678901", "Too long", AccountTypeAsset)
	assert.True(t, shared.IsValidation(err))

	_, err = NewAccount(uuid.Nil, "", "", AccountType("OTHER"))
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Details, 4)
}

func TestAccount_LooksLikeReceivable(t *testing.T) {
	a, err := NewAccount(uuid.New(), "1200", "Accounts receivable", AccountTypeAsset)
	require.NoError(t, err)
	assert.True(t, a.LooksLikeReceivable())

	a.Type = AccountTypeIncome
	assert.False(t, a.LooksLikeReceivable())
}

func TestNewJournal(t *testing.T) {
	j, err := NewJournal(uuid.New(), " sal ", "Sales", JournalTypeSales)
	require.NoError(t, err)
	assert.Equal(t, "SAL", j.Code)
	assert.Equal(t, int64(1), j.NextNumber)

	j, err = NewJournal(uuid.New(), "MISC", "Misc", "")
	require.NoError(t, err)
	assert.Equal(t, JournalTypeGeneral, j.Type)

	_, err = NewJournal(uuid.New(), "A/B", "Slash", JournalTypeGeneral)
	assert.True(t, shared.IsValidation(err))

	_, err = NewJournal(uuid.New(), "X", "X", JournalType("PAYROLL"))
	assert.True(t, shared.IsValidation(err))
}

func TestNewPartner(t *testing.T) {
	email := " Billing@Globex.COM "
	p, err := NewPartner(uuid.New(), "Globex", &email, true, true)
	require.NoError(t, err)
	require.NotNil(t, p.Email)
	assert.Equal(t, "billing@globex.com", *p.Email)

	_, err = NewPartner(uuid.New(), "Nobody", nil, false, false)
	assert.True(t, shared.IsValidation(err))

	bad := "not-an-email"
	_, err = NewPartner(uuid.New(), "Bad", &bad, true, false)
	assert.True(t, shared.IsValidation(err))

	blank := "   "
	p, err = NewPartner(uuid.New(), "Blank", &blank, false, true)
	require.NoError(t, err)
	assert.Nil(t, p.Email)
}
