package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company aggregate root.
type CompanyModel struct {
	AggregateModel
	Name              string               `gorm:"type:varchar(120);not null"`
	BaseCurrency      valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	InvoiceNextNumber int64                `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *accounting.Company {
	return &accounting.Company{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		BaseCurrency:      m.BaseCurrency,
		InvoiceNextNumber: m.InvoiceNextNumber,
	}
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *accounting.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.BaseCurrency = c.BaseCurrency
	m.InvoiceNextNumber = c.InvoiceNextNumber
}

// CompanyModelFromDomain creates a new persistence model from a domain Company.
func CompanyModelFromDomain(c *accounting.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	CompanyID uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_company_code,priority:1"`
	Code      string                 `gorm:"type:varchar(20);not null;uniqueIndex:idx_accounts_company_code,priority:2"`
	Name      string                 `gorm:"type:varchar(120);not null"`
	Type      accounting.AccountType `gorm:"type:varchar(20);not null;index"`
	IsActive  bool                   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *accounting.Account {
	return &accounting.Account{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(m.CompanyID),
		Code:                 m.Code,
		Name:                 m.Name,
		Type:                 m.Type,
		IsActive:             m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Account.
func (m *AccountModel) FromDomain(a *accounting.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.CompanyID = a.CompanyID
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.IsActive = a.IsActive
}

// AccountModelFromDomain creates a new persistence model from a domain Account.
func AccountModelFromDomain(a *accounting.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// JournalModel is the persistence model for the Journal aggregate root.
type JournalModel struct {
	AggregateModel
	CompanyID  uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_journals_company_code,priority:1"`
	Code       string                 `gorm:"type:varchar(20);not null;uniqueIndex:idx_journals_company_code,priority:2"`
	Name       string                 `gorm:"type:varchar(120);not null"`
	Type       accounting.JournalType `gorm:"type:varchar(20);not null;default:'GENERAL'"`
	NextNumber int64                  `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (JournalModel) TableName() string {
	return "journals"
}

// ToDomain converts the persistence model to a domain Journal.
func (m *JournalModel) ToDomain() *accounting.Journal {
	return &accounting.Journal{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(m.CompanyID),
		Code:                 m.Code,
		Name:                 m.Name,
		Type:                 m.Type,
		NextNumber:           m.NextNumber,
	}
}

// FromDomain populates the persistence model from a domain Journal.
func (m *JournalModel) FromDomain(j *accounting.Journal) {
	m.FromDomainAggregateRoot(j.BaseAggregateRoot)
	m.CompanyID = j.CompanyID
	m.Code = j.Code
	m.Name = j.Name
	m.Type = j.Type
	m.NextNumber = j.NextNumber
}

// JournalModelFromDomain creates a new persistence model from a domain Journal.
func JournalModelFromDomain(j *accounting.Journal) *JournalModel {
	m := &JournalModel{}
	m.FromDomain(j)
	return m
}

// PartnerModel is the persistence model for the Partner aggregate root.
type PartnerModel struct {
	AggregateModel
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_partners_company_email,priority:1"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Email      *string   `gorm:"type:varchar(255);uniqueIndex:idx_partners_company_email,priority:2"`
	IsCustomer bool      `gorm:"not null;default:false"`
	IsVendor   bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner.
func (m *PartnerModel) ToDomain() *accounting.Partner {
	return &accounting.Partner{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(m.CompanyID),
		Name:                 m.Name,
		Email:                m.Email,
		IsCustomer:           m.IsCustomer,
		IsVendor:             m.IsVendor,
	}
}

// FromDomain populates the persistence model from a domain Partner.
func (m *PartnerModel) FromDomain(p *accounting.Partner) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CompanyID = p.CompanyID
	m.Name = p.Name
	m.Email = p.Email
	m.IsCustomer = p.IsCustomer
	m.IsVendor = p.IsVendor
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner.
func PartnerModelFromDomain(p *accounting.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry aggregate root.
// Number stays NULL until posting; NULLs never collide in the unique index.
type JournalEntryModel struct {
	AggregateModel
	CompanyID uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_journal_entries_company_number,priority:1"`
	JournalID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Journal   *JournalModel          `gorm:"foreignKey:JournalID"`
	Date      time.Time              `gorm:"type:date;not null;index"`
	Number    *string                `gorm:"type:varchar(50);uniqueIndex:idx_journal_entries_company_number,priority:2"`
	Status    accounting.EntryStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Memo      string                 `gorm:"type:text"`
	PostedAt  *time.Time
	Lines     []JournalLineModel `gorm:"foreignKey:JournalEntryID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// JournalLineModel is the persistence model for a JournalLine.
type JournalLineModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	JournalEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Account        *AccountModel   `gorm:"foreignKey:AccountID;constraint:OnDelete:RESTRICT"`
	PartnerID      *uuid.UUID      `gorm:"type:uuid;index"`
	Label          string          `gorm:"type:varchar(255)"`
	Debit          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Credit         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Sequence       int             `gorm:"not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// ToDomain converts the persistence model to a domain JournalEntry with its lines.
// Journal and line accounts must be preloaded to carry their codes.
func (m *JournalEntryModel) ToDomain() *accounting.JournalEntry {
	e := &accounting.JournalEntry{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(m.CompanyID),
		JournalID:            m.JournalID,
		Date:                 m.Date.UTC(),
		Number:               m.Number,
		Status:               m.Status,
		Memo:                 m.Memo,
		PostedAt:             m.PostedAt,
		Lines:                make([]accounting.JournalLine, 0, len(m.Lines)),
	}
	if m.Journal != nil {
		e.JournalCode = m.Journal.Code
	}
	for _, l := range m.Lines {
		line := accounting.JournalLine{
			ID:        l.ID,
			AccountID: l.AccountID,
			PartnerID: l.PartnerID,
			Label:     l.Label,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Sequence:  l.Sequence,
		}
		if l.Account != nil {
			line.AccountCode = l.Account.Code
		}
		e.Lines = append(e.Lines, line)
	}
	return e
}

// FromDomain populates the persistence model from a domain JournalEntry.
func (m *JournalEntryModel) FromDomain(e *accounting.JournalEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.CompanyID = e.CompanyID
	m.JournalID = e.JournalID
	m.Date = e.Date
	m.Number = e.Number
	m.Status = e.Status
	m.Memo = e.Memo
	m.PostedAt = e.PostedAt
	m.Lines = make([]JournalLineModel, 0, len(e.Lines))
	for _, l := range e.Lines {
		m.Lines = append(m.Lines, JournalLineModel{
			ID:             l.ID,
			JournalEntryID: e.ID,
			AccountID:      l.AccountID,
			PartnerID:      l.PartnerID,
			Label:          l.Label,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Sequence:       l.Sequence,
			CreatedAt:      e.CreatedAt,
		})
	}
}

// JournalEntryModelFromDomain creates a new persistence model from a domain JournalEntry.
func JournalEntryModelFromDomain(e *accounting.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomain(e)
	return m
}

// CustomerInvoiceModel is the persistence model for the CustomerInvoice aggregate root.
type CustomerInvoiceModel struct {
	AggregateModel
	CompanyID      uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_customer_invoices_company_number,priority:1"`
	PartnerID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	InvoiceDate    time.Time                `gorm:"type:date;not null;index"`
	DueDate        *time.Time               `gorm:"type:date"`
	Number         *string                  `gorm:"type:varchar(50);uniqueIndex:idx_customer_invoices_company_number,priority:2"`
	Status         accounting.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Memo           string                   `gorm:"type:text"`
	Currency       valueobject.Currency     `gorm:"type:varchar(3);not null"`
	TotalAmount    decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	JournalEntryID *uuid.UUID               `gorm:"type:uuid;index"`
	PostedAt       *time.Time
	Lines          []InvoiceLineModel `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CustomerInvoiceModel) TableName() string {
	return "customer_invoices"
}

// InvoiceLineModel is the persistence model for an InvoiceLine.
type InvoiceLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description     string          `gorm:"type:varchar(255);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IncomeAccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	IncomeAccount   *AccountModel   `gorm:"foreignKey:IncomeAccountID;constraint:OnDelete:RESTRICT"`
	Sequence        int             `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain CustomerInvoice with its lines.
func (m *CustomerInvoiceModel) ToDomain() *accounting.CustomerInvoice {
	inv := &accounting.CustomerInvoice{
		CompanyAggregateRoot: m.ToDomainCompanyAggregateRoot(m.CompanyID),
		PartnerID:            m.PartnerID,
		InvoiceDate:          m.InvoiceDate.UTC(),
		Number:               m.Number,
		Status:               m.Status,
		Memo:                 m.Memo,
		Currency:             m.Currency,
		TotalAmount:          m.TotalAmount,
		JournalEntryID:       m.JournalEntryID,
		PostedAt:             m.PostedAt,
		Lines:                make([]accounting.InvoiceLine, 0, len(m.Lines)),
	}
	if m.DueDate != nil {
		due := m.DueDate.UTC()
		inv.DueDate = &due
	}
	for _, l := range m.Lines {
		line := accounting.InvoiceLine{
			ID:              l.ID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			LineTotal:       l.LineTotal,
			IncomeAccountID: l.IncomeAccountID,
			Sequence:        l.Sequence,
		}
		if l.IncomeAccount != nil {
			line.IncomeAccountCode = l.IncomeAccount.Code
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv
}

// FromDomain populates the persistence model from a domain CustomerInvoice.
func (m *CustomerInvoiceModel) FromDomain(inv *accounting.CustomerInvoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.CompanyID = inv.CompanyID
	m.PartnerID = inv.PartnerID
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.Number = inv.Number
	m.Status = inv.Status
	m.Memo = inv.Memo
	m.Currency = inv.Currency
	m.TotalAmount = inv.TotalAmount
	m.JournalEntryID = inv.JournalEntryID
	m.PostedAt = inv.PostedAt
	m.Lines = make([]InvoiceLineModel, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		m.Lines = append(m.Lines, InvoiceLineModel{
			ID:              l.ID,
			InvoiceID:       inv.ID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			LineTotal:       l.LineTotal,
			IncomeAccountID: l.IncomeAccountID,
			Sequence:        l.Sequence,
			CreatedAt:       inv.CreatedAt,
		})
	}
}

// CustomerInvoiceModelFromDomain creates a new persistence model from a domain CustomerInvoice.
func CustomerInvoiceModelFromDomain(inv *accounting.CustomerInvoice) *CustomerInvoiceModel {
	m := &CustomerInvoiceModel{}
	m.FromDomain(inv)
	return m
}

// LedgerModels lists every ledger model in dependency order for AutoMigrate
func LedgerModels() []any {
	return []any{
		&CompanyModel{},
		&AccountModel{},
		&JournalModel{},
		&PartnerModel{},
		&JournalEntryModel{},
		&JournalLineModel{},
		&CustomerInvoiceModel{},
		&InvoiceLineModel{},
	}
}
