package accounting

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
)

// AccountType classifies a ledger account
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsValid checks if the type is a known AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

const (
	maxAccountCodeLength = 20
	maxAccountNameLength = 120
)

// Account is a company-scoped ledger account, unique by (company, code)
type Account struct {
	shared.CompanyAggregateRoot
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	IsActive bool        `json:"is_active"`
}

// NewAccount creates an active account
func NewAccount(companyID uuid.UUID, code, name string, accountType AccountType) (*Account, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	var problems []string
	if companyID == uuid.Nil {
		problems = append(problems, "company is required")
	}
	if code == "" {
		problems = append(problems, "code is required")
	} else if len(code) > maxAccountCodeLength {
		problems = append(problems, "code cannot exceed 20 characters")
	}
	if name == "" {
		problems = append(problems, "name is required")
	} else if len(name) > maxAccountNameLength {
		problems = append(problems, "name cannot exceed 120 characters")
	}
	if !accountType.IsValid() {
		problems = append(problems, "type must be one of ASSET, LIABILITY, EQUITY, INCOME, EXPENSE")
	}
	if len(problems) > 0 {
		return nil, shared.NewValidationError("invalid account: %s", strings.Join(problems, "; ")).WithDetails(problems...)
	}

	return &Account{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 code,
		Name:                 name,
		Type:                 accountType,
		IsActive:             true,
	}, nil
}

// LooksLikeReceivable reports whether the account qualifies for the
// name-based receivable fallback.
func (a *Account) LooksLikeReceivable() bool {
	return a.Type == AccountTypeAsset && strings.Contains(strings.ToLower(a.Name), "receivable")
}
