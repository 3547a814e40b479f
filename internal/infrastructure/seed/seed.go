// Package seed loads a chart of accounts from YAML and applies it to a company.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/domain/shared"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AccountSeed is one account of the chart
type AccountSeed struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// JournalSeed is one journal
type JournalSeed struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ChartOfAccounts is the seed file document
type ChartOfAccounts struct {
	Accounts []AccountSeed `yaml:"accounts"`
	Journals []JournalSeed `yaml:"journals"`
}

// Result counts what Apply did
type Result struct {
	CompanyID       uuid.UUID
	CompanyCreated  bool
	AccountsCreated int
	AccountsSkipped int
	JournalsCreated int
	JournalsSkipped int
}

// LoadFile reads and parses a chart-of-accounts file
func LoadFile(path string) (*ChartOfAccounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a chart of accounts. Unknown keys are rejected.
func Parse(r io.Reader) (*ChartOfAccounts, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var chart ChartOfAccounts
	if err := dec.Decode(&chart); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("seed file is empty")
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := chart.validate(); err != nil {
		return nil, err
	}
	return &chart, nil
}

func (c *ChartOfAccounts) validate() error {
	var problems []string
	seen := make(map[string]bool)
	for i, a := range c.Accounts {
		if strings.TrimSpace(a.Code) == "" || strings.TrimSpace(a.Name) == "" {
			problems = append(problems, fmt.Sprintf("accounts[%d]: code and name are required", i))
			continue
		}
		if seen[a.Code] {
			problems = append(problems, fmt.Sprintf("accounts[%d]: duplicate code %s", i, a.Code))
		}
		seen[a.Code] = true
	}
	seen = make(map[string]bool)
	for i, j := range c.Journals {
		code := strings.ToUpper(strings.TrimSpace(j.Code))
		if code == "" || strings.TrimSpace(j.Name) == "" {
			problems = append(problems, fmt.Sprintf("journals[%d]: code and name are required", i))
			continue
		}
		if seen[code] {
			problems = append(problems, fmt.Sprintf("journals[%d]: duplicate code %s", i, code))
		}
		seen[code] = true
	}
	if len(problems) > 0 {
		return shared.NewValidationError("invalid seed file").WithDetails(problems...)
	}
	return nil
}

// Setup is the subset of the setup service the seeder drives
type Setup interface {
	CreateCompany(ctx context.Context, req ledger.CreateCompanyRequest) (*ledger.CompanyResponse, error)
	ListCompanies(ctx context.Context, q ledger.ListQuery) (*shared.Paginated[ledger.CompanyResponse], error)
	CreateAccount(ctx context.Context, companyID uuid.UUID, req ledger.CreateAccountRequest) (*ledger.AccountResponse, error)
	CreateJournal(ctx context.Context, companyID uuid.UUID, req ledger.CreateJournalRequest) (*ledger.JournalResponse, error)
}

// Seeder applies a chart of accounts through the setup service
type Seeder struct {
	setup  Setup
	logger *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(setup Setup, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{setup: setup, logger: logger.Named("seed")}
}

// EnsureCompany returns the company named name, creating it when absent
func (s *Seeder) EnsureCompany(ctx context.Context, name, currency string) (uuid.UUID, bool, error) {
	page, err := s.setup.ListCompanies(ctx, ledger.ListQuery{Search: name, PageSize: 100})
	if err != nil {
		return uuid.Nil, false, err
	}
	for _, c := range page.Items {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c.ID, false, nil
		}
	}
	created, err := s.setup.CreateCompany(ctx, ledger.CreateCompanyRequest{Name: name, BaseCurrency: currency})
	if err != nil {
		return uuid.Nil, false, err
	}
	return created.ID, true, nil
}

// Apply creates the company (if needed) then every account and journal of
// chart. Codes that already exist are skipped.
func (s *Seeder) Apply(ctx context.Context, companyName, currency string, chart *ChartOfAccounts) (*Result, error) {
	companyID, created, err := s.EnsureCompany(ctx, companyName, currency)
	if err != nil {
		return nil, fmt.Errorf("company %q: %w", companyName, err)
	}
	res, err := s.ApplyTo(ctx, companyID, chart)
	if err != nil {
		return nil, err
	}
	res.CompanyCreated = created
	return res, nil
}

// ApplyTo seeds an existing company
func (s *Seeder) ApplyTo(ctx context.Context, companyID uuid.UUID, chart *ChartOfAccounts) (*Result, error) {
	res := &Result{CompanyID: companyID}

	for _, a := range chart.Accounts {
		_, err := s.setup.CreateAccount(ctx, companyID, ledger.CreateAccountRequest{Code: a.Code, Name: a.Name, Type: a.Type})
		switch {
		case err == nil:
			res.AccountsCreated++
		case shared.IsConflict(err):
			res.AccountsSkipped++
		default:
			return nil, fmt.Errorf("account %s: %w", a.Code, err)
		}
	}

	for _, j := range chart.Journals {
		_, err := s.setup.CreateJournal(ctx, companyID, ledger.CreateJournalRequest{Code: j.Code, Name: j.Name, Type: j.Type})
		switch {
		case err == nil:
			res.JournalsCreated++
		case shared.IsConflict(err):
			res.JournalsSkipped++
		default:
			return nil, fmt.Errorf("journal %s: %w", j.Code, err)
		}
	}

	s.logger.Info("chart of accounts applied",
		zap.String("company_id", companyID.String()),
		zap.Int("accounts_created", res.AccountsCreated),
		zap.Int("accounts_skipped", res.AccountsSkipped),
		zap.Int("journals_created", res.JournalsCreated),
		zap.Int("journals_skipped", res.JournalsSkipped),
	)
	return res, nil
}
