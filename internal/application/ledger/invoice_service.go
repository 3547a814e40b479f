package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// InvoiceService creates draft customer invoices and posts them into the sales journal
type InvoiceService struct {
	repos      TransactionalRepositories
	txScope    TransactionScope
	receivable *accounting.ReceivableAccountResolver
	options
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repos TransactionalRepositories, txScope TransactionScope, opts ...Option) *InvoiceService {
	o := newOptions(opts)
	return &InvoiceService{
		repos:      repos,
		txScope:    txScope,
		receivable: accounting.NewReceivableAccountResolver(o.conventions.ReceivableCodes...),
		options:    o,
	}
}

// Create validates the request, checks the partner belongs to the company,
// resolves each line's income account and stores a DRAFT invoice.
func (s *InvoiceService) Create(ctx context.Context, companyID uuid.UUID, req CreateCustomerInvoiceRequest) (*CustomerInvoiceResponse, error) {
	invoiceDate, err := parseDate("invoice_date", req.InvoiceDate)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewValidationError("customer invoice must have at least one line item")
	}
	var problems []string
	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := parseDate("due_date", *req.DueDate)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			dueDate = &d
		}
	}
	for i, l := range req.Lines {
		problems = append(problems, accounting.ValidateInvoiceLine(i+1, l.Description, l.Quantity, l.UnitPrice)...)
		if strings.TrimSpace(l.IncomeAccountCode) == "" {
			problems = append(problems, fmt.Sprintf("line %d: income account code is required", i+1))
		}
	}
	if len(problems) > 0 {
		return nil, shared.NewValidationError("invalid customer invoice: %s", strings.Join(problems, "; ")).WithDetails(problems...)
	}

	company, err := s.repos.CompanyRepo().FindByID(ctx, companyID)
	if err != nil {
		return nil, notFoundAs(err, "company %s not found", companyID)
	}
	partner, err := s.repos.PartnerRepo().FindByID(ctx, companyID, req.PartnerID)
	if err != nil {
		return nil, notFoundAs(err, "partner %s not found in company %s", req.PartnerID, companyID)
	}

	accountCodes := make([]string, len(req.Lines))
	for i, l := range req.Lines {
		accountCodes[i] = strings.TrimSpace(l.IncomeAccountCode)
	}
	accounts, err := loadAccounts(ctx, s.repos.AccountRepo(), companyID, accountCodes)
	if err != nil {
		return nil, err
	}
	var missing []string
	for i, code := range accountCodes {
		if _, ok := accounts[code]; !ok {
			missing = append(missing, fmt.Sprintf("line %d: account code %s not found", i+1, code))
		}
	}
	if len(missing) > 0 {
		return nil, shared.NewNotFoundError("%s", strings.Join(missing, "; ")).WithDetails(missing...)
	}

	inputs := make([]accounting.InvoiceLineInput, len(req.Lines))
	for i, l := range req.Lines {
		acc := accounts[accountCodes[i]]
		inputs[i] = accounting.InvoiceLineInput{
			Description:       l.Description,
			Quantity:          l.Quantity,
			UnitPrice:         l.UnitPrice,
			IncomeAccountID:   acc.ID,
			IncomeAccountCode: acc.Code,
		}
	}

	invoice, err := accounting.NewCustomerInvoice(company, partner, invoiceDate, dueDate, req.Memo, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.InvoiceRepo().Save(ctx, invoice)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("customer invoice created",
		zap.String("company_id", companyID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("total", invoice.TotalAmount.StringFixed(2)),
	)
	s.publishEvents(ctx, invoice)

	resp := ToCustomerInvoiceResponse(invoice)
	return &resp, nil
}

// Post posts a DRAFT invoice. In one transaction it locks the sales journal
// and the company counters, synthesizes a POSTED journal entry (receivable
// debit, one revenue credit per non-zero line), numbers both documents and
// links them.
func (s *InvoiceService) Post(ctx context.Context, companyID, invoiceID uuid.UUID) (*PostCustomerInvoiceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.PostCustomerInvoice")
	defer span.End()
	span.SetAttributes(
		attribute.String("ledger.company_id", companyID.String()),
		attribute.String("ledger.invoice_id", invoiceID.String()),
	)

	invoice, entry, err := s.post(ctx, companyID, invoiceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("customer invoice posting failed",
			zap.String("company_id", companyID.String()),
			zap.String("invoice_id", invoiceID.String()),
			zap.String("code", shared.CodeOf(err)),
			zap.Error(err),
		)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("ledger.invoice_number", *invoice.Number),
		attribute.String("ledger.entry_number", *entry.Number),
	)

	s.logger.Info("customer invoice posted",
		zap.String("company_id", companyID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", *invoice.Number),
		zap.String("journal_entry", *entry.Number),
	)
	s.publishEvents(ctx, entry, invoice)

	return &PostCustomerInvoiceResponse{
		Invoice:      ToCustomerInvoiceResponse(invoice),
		JournalEntry: toJournalEntrySummary(entry),
	}, nil
}

func (s *InvoiceService) post(ctx context.Context, companyID, invoiceID uuid.UUID) (*accounting.CustomerInvoice, *accounting.JournalEntry, error) {
	invoice, err := s.repos.InvoiceRepo().FindByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, nil, notFoundAs(err, "customer invoice %s not found", invoiceID)
	}
	if err := invoice.ValidateForPosting(); err != nil {
		return nil, nil, err
	}

	salesCode := s.conventions.SalesJournalCode
	sales, err := s.repos.JournalRepo().FindByCode(ctx, companyID, salesCode)
	if err != nil {
		return nil, nil, notFoundAs(err, "sales journal %s not found", salesCode)
	}
	receivable, err := s.receivable.Resolve(ctx, s.repos.AccountRepo(), companyID)
	if err != nil {
		return nil, nil, err
	}

	var entry *accounting.JournalEntry
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		journal, err := repos.JournalRepo().FindByIDForUpdate(ctx, companyID, sales.ID)
		if err != nil {
			return notFoundAs(err, "sales journal %s not found", salesCode)
		}
		company, err := repos.CompanyRepo().FindByIDForUpdate(ctx, companyID)
		if err != nil {
			return notFoundAs(err, "company %s not found", companyID)
		}
		locked, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return notFoundAs(err, "customer invoice %s not found", invoiceID)
		}
		if err := locked.ValidateForPosting(); err != nil {
			return err
		}
		if err := locked.CheckTotals(); err != nil {
			return err
		}

		number, err := company.AllocateInvoiceNumber(s.conventions.InvoicePrefix, locked.InvoiceDate)
		if err != nil {
			return err
		}
		now := s.now()
		entry, err = accounting.NewPostedJournalEntry(journal, locked.InvoiceDate, "Customer invoice "+number, locked.PostingLines(receivable), now)
		if err != nil {
			return err
		}
		if err := locked.Post(number, entry, now); err != nil {
			return err
		}

		if err := repos.EntryRepo().Save(ctx, entry); err != nil {
			return err
		}
		if err := repos.JournalRepo().Save(ctx, journal); err != nil {
			return err
		}
		if err := repos.CompanyRepo().Save(ctx, company); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, locked); err != nil {
			return err
		}
		invoice = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, entry, nil
}

// Get retrieves an invoice with its lines
func (s *InvoiceService) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (*CustomerInvoiceResponse, error) {
	invoice, err := s.repos.InvoiceRepo().FindByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, notFoundAs(err, "customer invoice %s not found", invoiceID)
	}
	resp := ToCustomerInvoiceResponse(invoice)
	return &resp, nil
}

// List lists invoices of a company, newest first
func (s *InvoiceService) List(ctx context.Context, companyID uuid.UUID, q ListQuery) (*shared.Paginated[CustomerInvoiceResponse], error) {
	filter := accounting.CustomerInvoiceFilter{Filter: q.Filter()}
	filter.OrderBy = "invoice_date"
	if q.Status != "" {
		st := accounting.InvoiceStatus(strings.ToUpper(q.Status))
		if !st.IsValid() {
			return nil, shared.NewValidationError("unknown invoice status %s", q.Status)
		}
		filter.Status = &st
	}
	if q.PartnerID != "" {
		partnerID, err := uuid.Parse(q.PartnerID)
		if err != nil {
			return nil, shared.NewValidationError("partner_id must be a UUID")
		}
		filter.PartnerID = &partnerID
	}
	from, to, err := q.dateRange()
	if err != nil {
		return nil, err
	}
	filter.FromDate, filter.ToDate = from, to

	invoices, err := s.repos.InvoiceRepo().FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.InvoiceRepo().Count(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerInvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToCustomerInvoiceResponse(&invoices[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
