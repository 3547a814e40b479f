package accounting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
)

// JournalType tags a posting book
type JournalType string

const (
	JournalTypeGeneral  JournalType = "GENERAL"
	JournalTypeSales    JournalType = "SALES"
	JournalTypePurchase JournalType = "PURCHASE"
	JournalTypeBank     JournalType = "BANK"
	JournalTypeCash     JournalType = "CASH"
)

// IsValid checks if the type is a known JournalType
func (t JournalType) IsValid() bool {
	switch t {
	case JournalTypeGeneral, JournalTypeSales, JournalTypePurchase, JournalTypeBank, JournalTypeCash:
		return true
	}
	return false
}

// DefaultSalesJournalCode locates the journal that receives posted invoices
const DefaultSalesJournalCode = "SAL"

// Journal is a named posting book with its own entry counter
type Journal struct {
	shared.CompanyAggregateRoot
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Type       JournalType `json:"type"`
	NextNumber int64       `json:"next_number"`
}

// NewJournal creates a journal whose counter starts at 1. Codes are stored upper case.
func NewJournal(companyID uuid.UUID, code, name string, journalType JournalType) (*Journal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if journalType == "" {
		journalType = JournalTypeGeneral
	}

	var problems []string
	if companyID == uuid.Nil {
		problems = append(problems, "company is required")
	}
	if code == "" {
		problems = append(problems, "code is required")
	} else if len(code) > 20 || strings.Contains(code, "/") {
		problems = append(problems, "code must be at most 20 characters and cannot contain '/'")
	}
	if name == "" {
		problems = append(problems, "name is required")
	}
	if !journalType.IsValid() {
		problems = append(problems, "type must be one of GENERAL, SALES, PURCHASE, BANK, CASH")
	}
	if len(problems) > 0 {
		return nil, shared.NewValidationError("invalid journal: %s", strings.Join(problems, "; ")).WithDetails(problems...)
	}

	return &Journal{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 code,
		Name:                 name,
		Type:                 journalType,
		NextNumber:           1,
	}, nil
}

// AllocateEntryNumber formats the next entry number using the journal code as
// prefix and advances the counter. The caller must hold the row lock.
func (j *Journal) AllocateEntryNumber(entryDate time.Time) (string, error) {
	number, next, err := AllocateNumber(j.Code, entryDate, j.NextNumber)
	if err != nil {
		return "", err
	}
	j.NextNumber = next
	j.Touch(time.Now())
	return number, nil
}
