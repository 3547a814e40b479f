package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/application/ledger"
	"github.com/ledger/backend/internal/infrastructure/config"
	"github.com/ledger/backend/internal/infrastructure/logger"
	"github.com/ledger/backend/internal/infrastructure/persistence"
	"github.com/ledger/backend/internal/infrastructure/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultSeedFile = "seeds/chart_of_accounts.yaml"

type seedOptions struct {
	companyName string
	companyID   string
	currency    string
	file        string
}

func newSeedCommand(g *globals) *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a chart of accounts and journals into a company",
		Long: `seed creates the accounts and journals listed in a YAML file. The
company is looked up by name and created when missing, or addressed
directly with --company-id. Codes that already exist are left untouched,
so seeding twice is harmless.

Example:
  ledgerctl seed --company-name "Acme Ltd" --currency USD
  ledgerctl seed --company-id 0d7a... --file seeds/retail.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.runSeed(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.companyName, "company-name", "", "company to seed, created when missing")
	cmd.Flags().StringVar(&opts.companyID, "company-id", "", "existing company to seed")
	cmd.Flags().StringVar(&opts.currency, "currency", "USD", "base currency of a newly created company")
	cmd.Flags().StringVar(&opts.file, "file", defaultSeedFile, "chart-of-accounts YAML file")
	cmd.MarkFlagsOneRequired("company-name", "company-id")
	cmd.MarkFlagsMutuallyExclusive("company-name", "company-id")
	return cmd
}

func (g *globals) runSeed(cmd *cobra.Command, opts *seedOptions) error {
	chart, err := seed.LoadFile(opts.file)
	if err != nil {
		return err
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setup, closeFn, err := g.openSetup(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	seeder := seed.NewSeeder(setup, g.log)
	var res *seed.Result
	if opts.companyID != "" {
		id, err := uuid.Parse(opts.companyID)
		if err != nil {
			return fmt.Errorf("invalid --company-id %q", opts.companyID)
		}
		res, err = seeder.ApplyTo(cmd.Context(), id, chart)
		if err != nil {
			return err
		}
	} else {
		res, err = seeder.Apply(cmd.Context(), opts.companyName, opts.currency, chart)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "company %s (created: %t)\naccounts: %d created, %d skipped\njournals: %d created, %d skipped\n",
		res.CompanyID, res.CompanyCreated,
		res.AccountsCreated, res.AccountsSkipped,
		res.JournalsCreated, res.JournalsSkipped)
	return nil
}

// openPostgresSetup is the default openSetup: a setup service on the
// configured postgres database
func openPostgresSetup(ctx context.Context, cfg *config.Config, log *zap.Logger) (seed.Setup, func(), error) {
	db, err := persistence.NewDatabase(ctx, &cfg.Database,
		persistence.WithGormLogger(log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level), 0))
	if err != nil {
		return nil, nil, err
	}
	setup := ledger.NewSetupService(persistence.NewGormRepositories(db.DB), ledger.WithLogger(log))
	return setup, func() { _ = db.Close() }, nil
}
