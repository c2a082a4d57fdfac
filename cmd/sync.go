package cmd

import (
	"context"
	"fmt"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/discount"
	"catalog-sync/core/feeds"
	"catalog-sync/core/logger"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Flags for the sync command. Flags win over environment configuration
	// so operators can override a deployed default for one run.
	syncMode   string
	syncType   string
	syncDryRun bool
)

// syncCmd runs one reconciliation pass.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one catalog reconciliation pass",
	Long: `Sync diffs the local product feeds against the remote catalog and
issues the minimal set of price and inventory writes.

The run is idempotent: rerunning with unchanged inputs issues zero writes.

Examples:
  # Full sync, prices and inventory
  catalog-sync sync

  # Report what would change without writing
  catalog-sync sync --dry-run

  # Prices only, walking the remote catalog
  catalog-sync sync --type price --mode shopify_first`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncMode, "mode", "", "Iteration policy: local_first or shopify_first")
	syncCmd.Flags().StringVar(&syncType, "type", "", "What to write: price, inventory or both")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Log intended writes without issuing them")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flag overrides
	if cmd.Flags().Changed("mode") {
		cfg.Sync.Mode = syncMode
	}
	if cmd.Flags().Changed("type") {
		cfg.Sync.Type = syncType
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Sync.DryRun = syncDryRun
	}

	opts, err := cfg.Sync.Options()
	if err != nil {
		return err
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	// Connect to the merchant database when the feeds need it
	var db *gorm.DB
	if cfg.Feeds.Source == feeds.SourceDatabase {
		db, err = database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := verifyFeedTables(db, cfg.Feeds); err != nil {
			return err
		}
	}

	priceFeed, ledgerFeed, err := feeds.New(cfg.Feeds, db)
	if err != nil {
		return err
	}

	// Object storage is only needed for s3:// discount locations
	var store storage.Client
	if strings.HasPrefix(cfg.Discount.Location, "s3://") {
		store, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	discounts, err := discount.NewSource(cfg.Discount, store)
	if err != nil {
		return err
	}

	api := catalog.New(cfg.Catalog, l)

	// Inventory writes need a target location. Resolved up front so a
	// missing location fails the run before any write is issued.
	if opts.Type.IncludesInventory() && !opts.DryRun {
		loc, err := api.ActiveLocation(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve inventory location: %w", err)
		}
		opts.LocationID = loc
	}

	snap, err := reconcile.BuildSnapshot(ctx, reconcile.Sources{
		Prices:    priceFeed,
		Ledger:    ledgerFeed,
		Catalog:   api,
		Discounts: discounts,
		PageSize:  cfg.Catalog.PageSize,
		MaxPages:  cfg.Catalog.MaxPages,
	}, opts, l)
	if err != nil {
		return err
	}

	stats := reconcile.NewEngine(api, l).Run(ctx, snap, opts)

	// Item-level failures are in the summary, not the exit code. Only
	// setup failures abort a run.
	if errs := stats.Summary().Errors; errs > 0 {
		l.Warn("sync completed with item failures", zap.Int64("errors", errs))
	}
	return nil
}

// verifyFeedTables fails fast on schema drift before a database-sourced run.
func verifyFeedTables(db *gorm.DB, cfg feeds.Config) error {
	if err := database.VerifyTable(db, cfg.ProductTable, []string{"sku", "price"}); err != nil {
		return err
	}
	return database.VerifyTable(db, cfg.LedgerTable,
		[]string{"sku", "recorded_at", "initial_qty", "received_qty", "shipped_qty"})
}
