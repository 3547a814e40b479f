// Package cmd implements the ledgerctl commands: schema migrations and
// chart-of-accounts seeding.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledger/backend/internal/infrastructure/config"
	"github.com/ledger/backend/internal/infrastructure/logger"
	"github.com/ledger/backend/internal/infrastructure/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

// globals holds what the persistent flags and PersistentPreRunE produce
type globals struct {
	logLevel       string
	migrationsPath string

	log *zap.Logger
	// loadConfig and openSetup are replaced in tests
	loadConfig func() (*config.Config, error)
	openSetup  func(ctx context.Context, cfg *config.Config) (seed.Setup, func(), error)
}

// NewRootCommand builds the ledgerctl command tree
func NewRootCommand() *cobra.Command {
	g := &globals{loadConfig: config.Load}
	g.openSetup = func(ctx context.Context, cfg *config.Config) (seed.Setup, func(), error) {
		return openPostgresSetup(ctx, cfg, g.log)
	}
	return newRootCommand(g)
}

func newRootCommand(g *globals) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer the ledger database",
		Long: `ledgerctl applies schema migrations and seeds a chart of accounts.

Database settings come from config.toml, .env and LEDGER_* environment
variables, the same sources the API server reads.

Example:
  ledgerctl migrate up
  ledgerctl seed --company-name "Acme Ltd" --currency USD`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{
				Level:      g.logLevel,
				Format:     "console",
				Output:     "stderr",
				TimeFormat: "2006-01-02 15:04:05",
			}, "ledgerctl")
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			g.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if g.log != nil {
				_ = g.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.migrationsPath, "path", "", "migrations directory (default ./migrations)")

	root.AddCommand(newMigrateCommand(g), newSeedCommand(g))
	return root
}

// resolveMigrationsPath returns an absolute migrations directory, looking
// next to the executable when ./migrations does not exist
func (g *globals) resolveMigrationsPath() (string, error) {
	path := g.migrationsPath
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}
