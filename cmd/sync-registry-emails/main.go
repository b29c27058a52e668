// Command sync-registry-emails copies verified registry emails onto the
// matching businesses in the database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"registrymail/adapters/excel"
	"registrymail/adapters/postgres"
	"registrymail/app"
	"registrymail/internal"
	"registrymail/internal/config"
	"registrymail/internal/errors"
	"registrymail/internal/migration"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "registry email sync failed [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dryRun bool
	var migrate bool
	var printJSON bool

	cmd := &cobra.Command{
		Use:   "sync-registry-emails [path-to-xlsx]",
		Short: "Sync verified registry emails into the business database",
		Long: `Extracts (name, email) records from a registry workbook and matches them to
businesses by a normalized name key. Matched businesses get the registry email
as their primary address and the verified tag.

The workbook path defaults to REGISTRY_WORKBOOK. DATABASE_URL is required.

Example: sync-registry-emails ./registry.xlsx --dry-run --json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path := cfg.Registry.Workbook
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.InvalidInput("a workbook path argument or REGISTRY_WORKBOOK is required")
			}

			return runSync(cmd.Context(), cfg, path, dryRun, migrate, printJSON)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the changes without writing them")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create the business tables before syncing")
	cmd.Flags().BoolVar(&printJSON, "json", false, "Print the sync report as JSON on stdout")

	return cmd
}

func runSync(ctx context.Context, cfg *config.Config, path string, dryRun, migrate, printJSON bool) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	registrySvc := app.NewRegistryService(excel.NewOpener(), cfg.Columns(), logger)

	resolved, err := app.ResolvePath(path)
	if err != nil {
		return err
	}
	logger.Info("using registry workbook: %s", resolved)

	records, err := registrySvc.Extract(ctx, resolved)
	if err != nil {
		return err
	}
	logger.Info("loaded %d registry records with verified emails", len(records))

	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrate {
		if err := migration.NewRunner().Run(ctx, db); err != nil {
			return errors.Wrap(err, "database migration failed")
		}
	}

	syncSvc := app.NewRegistrySyncService(postgres.NewBusinessRepository(db), cfg.Sync.VerifiedTag, logger)
	report, err := syncSvc.Sync(ctx, records, dryRun)
	if err != nil {
		return err
	}

	if printJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
	}

	logger.Info("registry email sync completed")
	return nil
}
