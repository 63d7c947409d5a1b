package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cardcommand/core/config"
	"cardcommand/core/database"
	"cardcommand/core/history"
	"cardcommand/core/logger"
	"cardcommand/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for releases products
	productsQuery reconcile.Query

	// Flags for releases sync
	yesConfirm bool

	// Flags for releases migrate
	checkSchema bool
)

// releasesCmd is the parent command for release product operations.
var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "Query and maintain release products",
}

var releasesProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Run one reconciliation and print the result as JSON",
	Long: `Runs the same reconciliation as GET /releases/products and prints the result.

Examples:
  # Everything the configured source knows about
  releases products

  # Pokemon releases in 2025 (eligible for the catalog when CATALOG_ENABLED=true)
  releases products --category pokemon --from 2025-01-01 --to 2025-12-31`,
	RunE: runReleasesProducts,
}

var releasesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ask the backend to refresh release data from its providers",
	RunE:  runReleasesSync,
}

var releasesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or verify the release history tables",
	Long: `Runs the release history migrations against the configured database.
With --check the live schema is compared against the models instead and nothing is changed.`,
	RunE: runReleasesMigrate,
}

func init() {
	f := releasesProductsCmd.Flags()
	f.StringVar(&productsQuery.FromDate, "from", "", "Earliest release date (inclusive)")
	f.StringVar(&productsQuery.ToDate, "to", "", "Latest release date (inclusive)")
	f.StringSliceVar(&productsQuery.Categories, "category", nil, "Category filter, repeatable")
	f.StringVar(&productsQuery.Confidence, "confidence", "", "Confidence filter (confirmed, unconfirmed, rumor)")
	f.StringVar(&productsQuery.ConfidenceBand, "confidence-band", "", "Confidence band filter")
	f.StringVar(&productsQuery.Status, "status", "", "Status filter (announced, official, released)")
	f.StringVar(&productsQuery.SourceType, "source-type", "", "Source type filter")

	releasesSyncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")
	releasesMigrateCmd.Flags().BoolVar(&checkSchema, "check", false, "Only compare the live schema with the models")

	releasesCmd.AddCommand(releasesProductsCmd, releasesSyncCmd, releasesMigrateCmd)
	RootCmd.AddCommand(releasesCmd)
}

// loadCommandDeps loads configuration and a logger for one-shot commands.
func loadCommandDeps() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

func runReleasesProducts(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadCommandDeps()
	if err != nil {
		return err
	}
	defer l.Sync()

	deps, err := newApplication(cfg, l)
	if err != nil {
		return err
	}
	defer deps.Close()

	res, err := deps.service.Products(cmd.Context(), productsQuery)
	if err != nil {
		return fmt.Errorf("failed to fetch release products: %w", err)
	}

	l.Info("Release products fetched",
		zap.String("source", res.Source),
		zap.Int("count", len(res.Products)),
	)
	return printJSON(cmd.OutOrStdout(), res)
}

func runReleasesSync(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadCommandDeps()
	if err != nil {
		return err
	}
	defer l.Sync()

	if !confirmAction(cmd.InOrStdin(), "Trigger a backend release sync?") {
		l.Warn("Operation cancelled by user. No sync was triggered.")
		return nil
	}

	deps, err := newApplication(cfg, l)
	if err != nil {
		return err
	}
	defer deps.Close()

	res, err := deps.service.Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to sync releases: %w", err)
	}

	fields := []zap.Field{zap.String("message", res.Message)}
	for category, count := range res.Counts {
		fields = append(fields, zap.Int(category, count))
	}
	l.Info("Release sync complete", fields...)
	return nil
}

func runReleasesMigrate(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadCommandDeps()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if checkSchema {
		report, err := history.CheckSchema(db)
		if err != nil {
			return fmt.Errorf("failed to check schema: %w", err)
		}
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.Matched {
			return errors.New("release history schema does not match the models")
		}
		l.Info("Release history schema matches")
		return nil
	}

	if err := history.NewStore(db).Migrate(cmd.Context()); err != nil {
		return err
	}
	l.Info("Release history migrated", zap.String("database", cfg.Database.Name))
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirmAction prompts the user for confirmation or uses the --yes flag.
func confirmAction(in io.Reader, prompt string) bool {
	if yesConfirm {
		fmt.Fprintln(os.Stderr, "Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprintf(os.Stderr, "%s Type 'yes' to confirm: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
