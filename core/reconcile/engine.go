package reconcile

import (
	"context"
	"sort"
	"sync"

	"catalog-sync/core/catalog"
	"catalog-sync/core/discount"
	"catalog-sync/core/sku"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine diffs a snapshot against the remote catalog and converges it.
type Engine struct {
	api catalog.API
	log *zap.Logger
}

// NewEngine wires the engine to the remote catalog client.
func NewEngine(api catalog.API, log *zap.Logger) *Engine {
	return &Engine{api: api, log: log}
}

// item is one joined SKU ready for processing. Both sides resolved, local
// price parsed, overlays looked up.
type item struct {
	key     string
	aliases []string
	variant catalog.Variant

	// localPrice is nil when the feed price is missing or non-numeric.
	localPrice *decimal.Decimal
	// pct is the discount percent, nil when no discount applies.
	pct *float64
	// qty is the published quantity from the ledger, nil when the SKU has
	// no ledger entries.
	qty *int
}

// localRecord is one normalized product-feed entry.
type localRecord struct {
	raw     string
	price   string
	aliases []string
}

// remoteRecord is one normalized remote catalog entry.
type remoteRecord struct {
	variant catalog.Variant
	aliases []string
}

// Run executes one reconciliation pass over the snapshot. Item updates fan
// out concurrently; the shared rate limiter inside the catalog client is the
// only throttle. Always returns stats, even when every item fails.
func (e *Engine) Run(ctx context.Context, snap *Snapshot, opts Options) *RunStats {
	stats := NewRunStats()
	log := e.log.With(zap.String("run_id", stats.RunID))

	log.Info("starting reconciliation run",
		zap.String("mode", string(opts.Mode)),
		zap.String("type", string(opts.Type)),
		zap.Bool("dry_run", opts.DryRun))

	items := e.buildItems(snap, opts, stats, log)

	// Discounted items first. Stable, so the policy ordering is kept
	// within each group.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].pct != nil && items[j].pct == nil
	})

	var wg sync.WaitGroup
	for _, it := range items {
		wg.Add(1)
		go func(it item) {
			defer wg.Done()
			stats.Record(e.process(ctx, it, opts, log))
		}(it)
	}
	wg.Wait()

	stats.Finish()
	stats.Summary().Log(log)
	return stats
}

// buildItems joins the two sides under the configured iteration policy.
// Skips for missing counterparts and invalid SKUs are recorded here; only
// fully joined items reach the processing fan-out.
func (e *Engine) buildItems(snap *Snapshot, opts Options, stats *RunStats, log *zap.Logger) []item {
	locals, localKeys := indexProducts(snap, opts, stats, log)
	variants, variantKeys := indexVariants(snap, opts, stats, log)

	var items []item

	switch opts.Mode {
	case ModeShopifyFirst:
		for _, key := range variantKeys {
			rr := variants[key]
			rec, ok := lookupLocal(locals, key, rr.aliases)
			if !ok {
				log.Debug("remote variant has no local product, skipping",
					zap.String("sku", rr.variant.SKU))
				stats.Record(OutcomeSkippedNotFoundLocal)
				continue
			}
			items = append(items, buildItem(key, mergeAliases(rec.aliases, rr.aliases), rec, rr.variant, snap))
		}
	default: // ModeLocalFirst
		for _, key := range localKeys {
			rec := locals[key]
			rr, ok := lookupVariant(variants, key, rec.aliases)
			if !ok {
				log.Debug("local product has no remote variant, skipping",
					zap.String("sku", rec.raw))
				stats.Record(OutcomeSkippedNotFoundRemote)
				continue
			}
			items = append(items, buildItem(key, mergeAliases(rec.aliases, rr.aliases), rec, rr.variant, snap))
		}
	}

	return items
}

// buildItem resolves the per-item overlays: parsed price, discount percent
// and published quantity, all alias-aware.
func buildItem(key string, aliases []string, rec localRecord, v catalog.Variant, snap *Snapshot) item {
	it := item{key: key, aliases: aliases, variant: v}

	if p, err := decimal.NewFromString(rec.price); err == nil {
		it.localPrice = &p
	}
	if pct, ok := discountFor(snap.Discounts, key, aliases); ok {
		it.pct = &pct
	}
	if st, ok := inventoryFor(snap.Inventory, key, aliases); ok {
		qty := st.Published
		it.qty = &qty
	}
	return it
}

// mergeAliases combines both sides' alias sets without duplicates.
func mergeAliases(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := append([]string(nil), a...)
	for _, alias := range b {
		seen := false
		for _, have := range out {
			if have == alias {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, alias)
		}
	}
	return out
}

// indexProducts normalizes the product feed into a canonical-key index.
// Duplicate keys resolve last-write-wins with a warning. Alias keys are
// added for lookups but only canonical keys drive iteration.
func indexProducts(snap *Snapshot, opts Options, stats *RunStats, log *zap.Logger) (map[string]localRecord, []string) {
	index := make(map[string]localRecord, len(snap.Products))
	canonical := make(map[string]bool, len(snap.Products))
	var keys []string

	for _, p := range snap.Products {
		res := sku.Normalize(p.SKU, opts.SkuMode)
		if !res.Valid {
			log.Warn("product feed entry has invalid sku, skipping",
				zap.String("sku", p.SKU))
			if opts.Mode == ModeLocalFirst {
				stats.Record(OutcomeSkippedInvalid)
			}
			continue
		}
		if canonical[res.Key] {
			log.Warn("duplicate sku in product feed, keeping latest entry",
				zap.String("sku", p.SKU),
				zap.String("key", res.Key))
		} else {
			canonical[res.Key] = true
			keys = append(keys, res.Key)
		}
		rec := localRecord{raw: p.SKU, price: p.Price, aliases: res.Aliases}
		index[res.Key] = rec
		for _, a := range res.Aliases {
			if _, taken := index[a]; !taken {
				index[a] = rec
			}
		}
	}

	return index, keys
}

// indexVariants normalizes the remote catalog into a canonical-key index,
// alias-augmented the same way as the product index.
func indexVariants(snap *Snapshot, opts Options, stats *RunStats, log *zap.Logger) (map[string]remoteRecord, []string) {
	index := make(map[string]remoteRecord, len(snap.Variants))
	canonical := make(map[string]bool, len(snap.Variants))
	var keys []string

	for _, v := range snap.Variants {
		res := sku.Normalize(v.SKU, opts.SkuMode)
		if !res.Valid {
			log.Warn("remote variant has invalid sku, skipping",
				zap.String("sku", v.SKU),
				zap.String("variant_id", v.ID))
			if opts.Mode == ModeShopifyFirst {
				stats.Record(OutcomeSkippedInvalid)
			}
			continue
		}
		if canonical[res.Key] {
			log.Warn("duplicate sku in remote catalog, keeping latest variant",
				zap.String("sku", v.SKU),
				zap.String("key", res.Key))
		} else {
			canonical[res.Key] = true
			keys = append(keys, res.Key)
		}
		rr := remoteRecord{variant: v, aliases: res.Aliases}
		index[res.Key] = rr
		for _, a := range res.Aliases {
			if _, taken := index[a]; !taken {
				index[a] = rr
			}
		}
	}

	return index, keys
}

func lookupLocal(index map[string]localRecord, key string, aliases []string) (localRecord, bool) {
	if rec, ok := index[key]; ok {
		return rec, true
	}
	for _, a := range aliases {
		if rec, ok := index[a]; ok {
			return rec, true
		}
	}
	return localRecord{}, false
}

func lookupVariant(index map[string]remoteRecord, key string, aliases []string) (remoteRecord, bool) {
	if rr, ok := index[key]; ok {
		return rr, true
	}
	for _, a := range aliases {
		if rr, ok := index[a]; ok {
			return rr, true
		}
	}
	return remoteRecord{}, false
}

// process diffs one item and issues the writes its differences call for.
// Price and inventory writes are independent: a failed price write never
// blocks the inventory write for the same item.
func (e *Engine) process(ctx context.Context, it item, opts Options, log *zap.Logger) Outcome {
	ilog := log.With(
		zap.String("sku", it.variant.SKU),
		zap.String("key", it.key),
		zap.String("product", it.variant.ProductTitle))

	var targetPrice *string
	if opts.Type.IncludesPrice() && it.localPrice != nil {
		price := *it.localPrice
		if it.pct != nil {
			price = discount.Apply(price, *it.pct)
		}
		s := price.StringFixed(2)
		targetPrice = &s
	}

	var targetQty *int
	if opts.Type.IncludesInventory() && it.qty != nil {
		targetQty = it.qty
	}

	if targetPrice == nil && (targetQty == nil || !it.variant.Tracked) {
		if opts.Type.IncludesPrice() && it.localPrice == nil {
			ilog.Warn("local price is not numeric and nothing else is comparable, skipping")
			return OutcomeSkippedInvalid
		}
		return OutcomeNoChange
	}

	// Remote prices arrive as decimal strings; comparing strings avoids a
	// second rounding step and any float drift.
	wantPrice := targetPrice != nil && *targetPrice != it.variant.Price
	wantQty := targetQty != nil && it.variant.Tracked && *targetQty != it.variant.Quantity

	if !wantPrice && !wantQty {
		return OutcomeNoChange
	}

	if opts.DryRun {
		if wantPrice {
			ilog.Info("dry run: would update price",
				zap.String("from", it.variant.Price),
				zap.String("to", *targetPrice))
		}
		if wantQty {
			ilog.Info("dry run: would update inventory",
				zap.Int("from", it.variant.Quantity),
				zap.Int("to", *targetQty))
		}
		return writtenOutcome(wantPrice, wantQty)
	}

	var failed bool

	if wantPrice {
		if err := e.api.UpdatePrice(ctx, it.variant.ID, *targetPrice); err != nil {
			ilog.Error("price update failed",
				zap.String("to", *targetPrice),
				zap.Error(err))
			failed = true
			wantPrice = false
		} else {
			ilog.Info("price updated",
				zap.String("from", it.variant.Price),
				zap.String("to", *targetPrice))
		}
	}

	if wantQty {
		if err := e.api.SetInventory(ctx, it.variant.InventoryItemID, opts.LocationID, *targetQty); err != nil {
			ilog.Error("inventory update failed",
				zap.Int("to", *targetQty),
				zap.Error(err))
			failed = true
			wantQty = false
		} else {
			ilog.Info("inventory updated",
				zap.Int("from", it.variant.Quantity),
				zap.Int("to", *targetQty))
		}
	}

	if failed {
		return OutcomeError
	}
	return writtenOutcome(wantPrice, wantQty)
}

func writtenOutcome(price, qty bool) Outcome {
	switch {
	case price && qty:
		return OutcomeBothUpdated
	case price:
		return OutcomePriceUpdated
	default:
		return OutcomeInventoryUpdated
	}
}
