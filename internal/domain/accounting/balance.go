package accounting

import (
	"fmt"

	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DebitCredit is one side-tagged amount pair fed to the balance check
type DebitCredit struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// BalanceTotals holds the two column sums of a set of lines
type BalanceTotals struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// IsBalanced reports whether both columns are equal at ledger scale
func (t BalanceTotals) IsBalanced() bool {
	return t.TotalDebit.Equal(t.TotalCredit)
}

// ImbalanceError reports unequal debit and credit totals.
// It matches shared.CodeImbalanced through errors.Is and errors.As.
type ImbalanceError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return e.domainError().Error()
}

// Unwrap exposes the taxonomy error so callers can map it without knowing this type
func (e *ImbalanceError) Unwrap() error {
	return e.domainError()
}

func (e *ImbalanceError) domainError() *shared.DomainError {
	msg := fmt.Sprintf("entry is not balanced: debit=%s credit=%s",
		e.TotalDebit.StringFixed(valueobject.MoneyScale),
		e.TotalCredit.StringFixed(valueobject.MoneyScale))
	return shared.NewDomainError(shared.CodeImbalanced, msg).WithDetails(
		"total_debit="+e.TotalDebit.StringFixed(valueobject.MoneyScale),
		"total_credit="+e.TotalCredit.StringFixed(valueobject.MoneyScale),
	)
}

// SumLines totals both columns. Every amount is rounded to ledger scale
// before it is added, so the result does not depend on input precision.
func SumLines(lines []DebitCredit) BalanceTotals {
	totals := BalanceTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, l := range lines {
		totals.TotalDebit = totals.TotalDebit.Add(valueobject.RoundAmount(l.Debit))
		totals.TotalCredit = totals.TotalCredit.Add(valueobject.RoundAmount(l.Credit))
	}
	return totals
}

// CheckBalance sums the lines and returns an *ImbalanceError when debits and
// credits differ.
func CheckBalance(lines []DebitCredit) (BalanceTotals, error) {
	totals := SumLines(lines)
	if !totals.IsBalanced() {
		return totals, &ImbalanceError{TotalDebit: totals.TotalDebit, TotalCredit: totals.TotalCredit}
	}
	return totals, nil
}

// CheckAmountsAgree compares two independently derived totals, such as an
// invoice header total against its recomputed line sum.
func CheckAmountsAgree(debit, credit decimal.Decimal) error {
	_, err := CheckBalance([]DebitCredit{{Debit: debit, Credit: credit}})
	return err
}
