package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SetupService manages ledger master data: companies, accounts, journals and partners
type SetupService struct {
	repos TransactionalRepositories
	options
}

// NewSetupService creates a new SetupService
func NewSetupService(repos TransactionalRepositories, opts ...Option) *SetupService {
	return &SetupService{repos: repos, options: newOptions(opts)}
}

// ============================================
// Companies
// ============================================

// CreateCompany creates a company with its invoice counter at 1
func (s *SetupService) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := accounting.NewCompany(req.Name, req.BaseCurrency)
	if err != nil {
		return nil, err
	}
	if err := s.repos.CompanyRepo().Save(ctx, company); err != nil {
		return nil, err
	}
	s.logger.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("name", company.Name),
	)
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// GetCompany retrieves a company by ID
func (s *SetupService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.repos.CompanyRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// ListCompanies lists companies
func (s *SetupService) ListCompanies(ctx context.Context, q ListQuery) (*shared.Paginated[CompanyResponse], error) {
	filter := q.Filter()
	companies, err := s.repos.CompanyRepo().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.CompanyRepo().Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CompanyResponse, len(companies))
	for i := range companies {
		items[i] = ToCompanyResponse(&companies[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DefaultCompanyID returns the oldest company. It backs the request-layer
// fallback when a request names no company.
func (s *SetupService) DefaultCompanyID(ctx context.Context) (uuid.UUID, error) {
	company, err := s.repos.CompanyRepo().FindFirst(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			return uuid.Nil, shared.NewNotFoundError("no company has been set up")
		}
		return uuid.Nil, err
	}
	return company.ID, nil
}

// CompanyExists reports whether a company with the given ID exists
func (s *SetupService) CompanyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repos.CompanyRepo().FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *SetupService) requireCompany(ctx context.Context, companyID uuid.UUID) error {
	if _, err := s.repos.CompanyRepo().FindByID(ctx, companyID); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewNotFoundError("company %s not found", companyID)
		}
		return err
	}
	return nil
}

// ============================================
// Accounts
// ============================================

// CreateAccount creates an account in the company chart
func (s *SetupService) CreateAccount(ctx context.Context, companyID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	account, err := accounting.NewAccount(companyID, req.Code, req.Name, accounting.AccountType(strings.ToUpper(req.Type)))
	if err != nil {
		return nil, err
	}
	if existing, err := s.repos.AccountRepo().FindByCode(ctx, companyID, account.Code); err == nil && existing != nil {
		return nil, shared.NewConflictError("account code %s already exists", account.Code)
	} else if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if err := s.repos.AccountRepo().Save(ctx, account); err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// GetAccount retrieves an account by ID
func (s *SetupService) GetAccount(ctx context.Context, companyID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.repos.AccountRepo().FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// ListAccounts lists the company chart of accounts
func (s *SetupService) ListAccounts(ctx context.Context, companyID uuid.UUID, q ListQuery) (*shared.Paginated[AccountResponse], error) {
	filter := accounting.AccountFilter{Filter: q.Filter()}
	filter.OrderBy = "code"
	if q.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	if q.Type != "" {
		t := accounting.AccountType(strings.ToUpper(q.Type))
		if !t.IsValid() {
			return nil, shared.NewValidationError("unknown account type %s", q.Type)
		}
		filter.Type = &t
	}
	accounts, err := s.repos.AccountRepo().FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.AccountRepo().Count(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]AccountResponse, len(accounts))
	for i := range accounts {
		items[i] = ToAccountResponse(&accounts[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ============================================
// Journals
// ============================================

// CreateJournal creates a journal with its entry counter at 1
func (s *SetupService) CreateJournal(ctx context.Context, companyID uuid.UUID, req CreateJournalRequest) (*JournalResponse, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	journal, err := accounting.NewJournal(companyID, req.Code, req.Name, accounting.JournalType(strings.ToUpper(req.Type)))
	if err != nil {
		return nil, err
	}
	if existing, err := s.repos.JournalRepo().FindByCode(ctx, companyID, journal.Code); err == nil && existing != nil {
		return nil, shared.NewConflictError("journal code %s already exists", journal.Code)
	} else if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if err := s.repos.JournalRepo().Save(ctx, journal); err != nil {
		return nil, err
	}
	resp := ToJournalResponse(journal)
	return &resp, nil
}

// GetJournal retrieves a journal by ID
func (s *SetupService) GetJournal(ctx context.Context, companyID, id uuid.UUID) (*JournalResponse, error) {
	journal, err := s.repos.JournalRepo().FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToJournalResponse(journal)
	return &resp, nil
}

// ListJournals lists the company journals
func (s *SetupService) ListJournals(ctx context.Context, companyID uuid.UUID, q ListQuery) (*shared.Paginated[JournalResponse], error) {
	filter := q.Filter()
	filter.OrderBy = "code"
	if q.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	journals, err := s.repos.JournalRepo().FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.JournalRepo().Count(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]JournalResponse, len(journals))
	for i := range journals {
		items[i] = ToJournalResponse(&journals[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ============================================
// Partners
// ============================================

// CreatePartner creates a customer and/or vendor
func (s *SetupService) CreatePartner(ctx context.Context, companyID uuid.UUID, req CreatePartnerRequest) (*PartnerResponse, error) {
	if err := s.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}
	partner, err := accounting.NewPartner(companyID, req.Name, req.Email, req.IsCustomer, req.IsVendor)
	if err != nil {
		return nil, err
	}
	if err := s.repos.PartnerRepo().Save(ctx, partner); err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(partner)
	return &resp, nil
}

// GetPartner retrieves a partner by ID
func (s *SetupService) GetPartner(ctx context.Context, companyID, id uuid.UUID) (*PartnerResponse, error) {
	partner, err := s.repos.PartnerRepo().FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(partner)
	return &resp, nil
}

// ListPartners lists the company partners
func (s *SetupService) ListPartners(ctx context.Context, companyID uuid.UUID, q ListQuery) (*shared.Paginated[PartnerResponse], error) {
	filter := accounting.PartnerFilter{Filter: q.Filter()}
	filter.OrderBy = "name"
	if q.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	switch strings.ToLower(q.Type) {
	case "":
	case "customer":
		yes := true
		filter.IsCustomer = &yes
	case "vendor":
		yes := true
		filter.IsVendor = &yes
	default:
		return nil, shared.NewValidationError("partner type must be customer or vendor")
	}
	partners, err := s.repos.PartnerRepo().FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.PartnerRepo().Count(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PartnerResponse, len(partners))
	for i := range partners {
		items[i] = ToPartnerResponse(&partners[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
