package reconcile

import (
	"context"
	"fmt"

	"catalog-sync/core/catalog"
	"catalog-sync/core/discount"
	"catalog-sync/core/feeds"
	"catalog-sync/core/inventory"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sources bundles everything a run reads from. Discounts may be nil; the
// snapshot then carries an empty discount set.
type Sources struct {
	Prices    feeds.PriceFeed
	Ledger    feeds.LedgerFeed
	Catalog   catalog.API
	Discounts discount.Source

	// PageSize and MaxPages tune the remote catalog fetch. Zero values
	// fall back to the fetch defaults.
	PageSize int
	MaxPages int
}

// Snapshot is the point-in-time state the engine diffs against. All sources
// are read once, up front, so a run reasons over a consistent picture.
type Snapshot struct {
	Products  []feeds.Product
	Inventory map[string]inventory.State
	Discounts map[string]float64
	Variants  []catalog.Variant
}

// BuildSnapshot loads all sources concurrently. Price feed, ledger feed and
// remote catalog failures abort the build; an unreachable discount source
// degrades to an empty overlay with a warning, since missing discounts only
// mean base prices get published.
func BuildSnapshot(ctx context.Context, src Sources, opts Options, log *zap.Logger) (*Snapshot, error) {
	snap := &Snapshot{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := src.Prices.FetchProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch product feed: %w", err)
		}
		snap.Products = products
		return nil
	})

	g.Go(func() error {
		entries, err := src.Ledger.FetchLedger(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch inventory ledger: %w", err)
		}
		snap.Inventory = inventory.Aggregate(entries, inventory.Options{
			Mode:        opts.SkuMode,
			SafetyStock: opts.SafetyStock,
		}, log)
		return nil
	})

	g.Go(func() error {
		variants, err := catalog.FetchAllVariants(ctx, src.Catalog, src.PageSize, src.MaxPages, log)
		if err != nil {
			return err
		}
		snap.Variants = variants
		return nil
	})

	g.Go(func() error {
		snap.Discounts = discount.LoadOrEmpty(ctx, src.Discounts, opts.SkuMode, log)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("snapshot built",
		zap.Int("products", len(snap.Products)),
		zap.Int("inventory_skus", len(snap.Inventory)),
		zap.Int("discount_skus", len(snap.Discounts)),
		zap.Int("variants", len(snap.Variants)))

	return snap, nil
}
