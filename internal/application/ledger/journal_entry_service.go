package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// JournalEntryService creates draft journal entries and posts them
type JournalEntryService struct {
	repos   TransactionalRepositories
	txScope TransactionScope
	options
}

// NewJournalEntryService creates a new JournalEntryService
func NewJournalEntryService(repos TransactionalRepositories, txScope TransactionScope, opts ...Option) *JournalEntryService {
	return &JournalEntryService{
		repos:   repos,
		txScope: txScope,
		options: newOptions(opts),
	}
}

// Create validates the request, resolves the journal and every account code
// within the company, and stores a DRAFT entry without a number.
func (s *JournalEntryService) Create(ctx context.Context, companyID uuid.UUID, req CreateJournalEntryRequest) (*JournalEntryResponse, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) < accounting.MinJournalLines {
		return nil, shared.NewValidationError("journal entry must have at least %d lines", accounting.MinJournalLines)
	}
	var problems []string
	for i, l := range req.Lines {
		if strings.TrimSpace(l.AccountCode) == "" {
			problems = append(problems, fmt.Sprintf("line %d: account code is required", i+1))
		}
		if l.Debit == nil || l.Credit == nil {
			problems = append(problems, fmt.Sprintf("line %d: debit and credit are required", i+1))
			continue
		}
		problems = append(problems, accounting.ValidateLineAmounts(i+1, *l.Debit, *l.Credit)...)
	}
	if len(problems) > 0 {
		return nil, shared.NewValidationError("invalid journal entry: %s", strings.Join(problems, "; ")).WithDetails(problems...)
	}

	if _, err := s.repos.CompanyRepo().FindByID(ctx, companyID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("company %s not found", companyID)
		}
		return nil, err
	}

	var missing []string
	journalCode := strings.ToUpper(strings.TrimSpace(req.JournalCode))
	journal, err := s.repos.JournalRepo().FindByCode(ctx, companyID, journalCode)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		missing = append(missing, "journal "+journalCode)
	}

	accountCodes := make([]string, len(req.Lines))
	for i, l := range req.Lines {
		accountCodes[i] = strings.TrimSpace(l.AccountCode)
	}
	accounts, err := loadAccounts(ctx, s.repos.AccountRepo(), companyID, accountCodes)
	if err != nil {
		return nil, err
	}
	for _, c := range missingAccountCodes(accountCodes, accounts) {
		missing = append(missing, "account "+c)
	}
	if len(missing) > 0 {
		return nil, shared.NewNotFoundError("unresolved references: %s", strings.Join(missing, ", ")).WithDetails(missing...)
	}

	inputs := make([]accounting.JournalLineInput, len(req.Lines))
	for i, l := range req.Lines {
		acc := accounts[accountCodes[i]]
		inputs[i] = accounting.JournalLineInput{
			AccountID:   acc.ID,
			AccountCode: acc.Code,
			Label:       l.Label,
			Debit:       *l.Debit,
			Credit:      *l.Credit,
		}
	}

	entry, err := accounting.NewJournalEntry(journal, date, req.Memo, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.EntryRepo().Save(ctx, entry)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("journal entry created",
		zap.String("company_id", companyID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("journal", journal.Code),
		zap.Int("lines", len(entry.Lines)),
	)
	s.publishEvents(ctx, entry)

	resp := ToJournalEntryResponse(entry)
	return &resp, nil
}

// Post moves a DRAFT entry to POSTED. The journal row is locked first, the
// entry is re-read and re-validated under that lock, and the number, status
// and counter change commit together.
func (s *JournalEntryService) Post(ctx context.Context, companyID, entryID uuid.UUID) (*JournalEntryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.PostJournalEntry")
	defer span.End()
	span.SetAttributes(
		attribute.String("ledger.company_id", companyID.String()),
		attribute.String("ledger.entry_id", entryID.String()),
	)

	posted, err := s.post(ctx, companyID, entryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("journal entry posting failed",
			zap.String("company_id", companyID.String()),
			zap.String("entry_id", entryID.String()),
			zap.String("code", shared.CodeOf(err)),
			zap.Error(err),
		)
		return nil, err
	}
	span.SetAttributes(attribute.String("ledger.entry_number", *posted.Number))

	s.logger.Info("journal entry posted",
		zap.String("company_id", companyID.String()),
		zap.String("entry_id", posted.ID.String()),
		zap.String("number", *posted.Number),
	)
	s.publishEvents(ctx, posted)

	resp := ToJournalEntryResponse(posted)
	return &resp, nil
}

func (s *JournalEntryService) post(ctx context.Context, companyID, entryID uuid.UUID) (*accounting.JournalEntry, error) {
	entry, err := s.repos.EntryRepo().FindByID(ctx, companyID, entryID)
	if err != nil {
		return nil, notFoundAs(err, "journal entry %s not found", entryID)
	}
	if err := entry.ValidateForPosting(); err != nil {
		return nil, err
	}

	var posted *accounting.JournalEntry
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		journal, err := repos.JournalRepo().FindByIDForUpdate(ctx, companyID, entry.JournalID)
		if err != nil {
			return notFoundAs(err, "journal %s not found", entry.JournalID)
		}
		locked, err := repos.EntryRepo().FindByIDForUpdate(ctx, companyID, entryID)
		if err != nil {
			return notFoundAs(err, "journal entry %s not found", entryID)
		}
		if err := locked.ValidateForPosting(); err != nil {
			return err
		}

		number, err := journal.AllocateEntryNumber(locked.Date)
		if err != nil {
			return err
		}
		if err := locked.Post(number, s.now()); err != nil {
			return err
		}
		if err := repos.JournalRepo().Save(ctx, journal); err != nil {
			return err
		}
		if err := repos.EntryRepo().Save(ctx, locked); err != nil {
			return err
		}
		posted = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

// Get retrieves an entry with its lines
func (s *JournalEntryService) Get(ctx context.Context, companyID, entryID uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.repos.EntryRepo().FindByID(ctx, companyID, entryID)
	if err != nil {
		return nil, notFoundAs(err, "journal entry %s not found", entryID)
	}
	resp := ToJournalEntryResponse(entry)
	return &resp, nil
}

// List lists entries of a company, newest first
func (s *JournalEntryService) List(ctx context.Context, companyID uuid.UUID, q ListQuery) (*shared.Paginated[JournalEntryResponse], error) {
	filter := accounting.JournalEntryFilter{Filter: q.Filter()}
	filter.OrderBy = "date"
	if q.Status != "" {
		st := accounting.EntryStatus(strings.ToUpper(q.Status))
		if !st.IsValid() {
			return nil, shared.NewValidationError("unknown entry status %s", q.Status)
		}
		filter.Status = &st
	}
	if q.JournalCode != "" {
		journal, err := s.repos.JournalRepo().FindByCode(ctx, companyID, strings.ToUpper(strings.TrimSpace(q.JournalCode)))
		if err != nil {
			return nil, notFoundAs(err, "journal %s not found", q.JournalCode)
		}
		filter.JournalID = &journal.ID
	}
	from, to, err := q.dateRange()
	if err != nil {
		return nil, err
	}
	filter.FromDate, filter.ToDate = from, to

	entries, err := s.repos.EntryRepo().FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.EntryRepo().Count(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		items[i] = ToJournalEntryResponse(&entries[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// loadAccounts loads the accounts for the given codes keyed by code
func loadAccounts(ctx context.Context, repo accounting.AccountRepository, companyID uuid.UUID, codes []string) (map[string]*accounting.Account, error) {
	unique := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		if c != "" && !seen[c] {
			seen[c] = true
			unique = append(unique, c)
		}
	}
	found, err := repo.FindByCodes(ctx, companyID, unique)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*accounting.Account, len(found))
	for i := range found {
		byCode[found[i].Code] = &found[i]
	}
	return byCode, nil
}

// missingAccountCodes lists the distinct unresolved codes in sorted order
func missingAccountCodes(codes []string, resolved map[string]*accounting.Account) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, c := range codes {
		if _, ok := resolved[c]; !ok && !seen[c] {
			seen[c] = true
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)
	return missing
}

// notFoundAs rewrites a repository not-found error with an entity-specific message
func notFoundAs(err error, format string, args ...any) error {
	if shared.IsNotFound(err) {
		return shared.NewNotFoundError(format, args...)
	}
	return err
}
