package reconcile

import (
	"fmt"

	"catalog-sync/core/inventory"
	"catalog-sync/core/sku"
)

// Mode selects which side of the join drives the iteration set.
type Mode string

const (
	// ModeLocalFirst iterates local products; SKUs absent remotely are
	// skipped. Use when the remote catalog carries stale entries.
	ModeLocalFirst Mode = "local_first"
	// ModeShopifyFirst iterates the remote catalog; SKUs absent locally
	// are skipped. Use when the local feeds carry spurious entries.
	ModeShopifyFirst Mode = "shopify_first"
)

// Type selects which fields a run is allowed to write.
type Type string

const (
	TypePrice     Type = "price"
	TypeInventory Type = "inventory"
	TypeBoth      Type = "both"
)

// IncludesPrice reports whether price writes are in scope for this run.
func (t Type) IncludesPrice() bool {
	return t == TypePrice || t == TypeBoth
}

// IncludesInventory reports whether inventory writes are in scope.
func (t Type) IncludesInventory() bool {
	return t == TypeInventory || t == TypeBoth
}

// Config holds the sync configuration surface as loaded from environment.
type Config struct {
	// Mode is the iteration policy: local_first or shopify_first.
	Mode string `mapstructure:"mode" default:"local_first"`
	// Type limits what gets written: price, inventory or both.
	Type string `mapstructure:"type" default:"both"`
	// SafetyStock is the on-hand threshold at or below which the
	// published quantity is forced to zero.
	SafetyStock int `mapstructure:"safety_stock" default:"3"`
	// SkuMode is the SKU normalization mode: numeric or alphanumeric.
	SkuMode string `mapstructure:"sku_mode" default:"alphanumeric"`
	// DryRun logs intended writes without issuing them.
	DryRun bool `mapstructure:"dry_run" default:"false"`
}

// Options is the validated, runtime form of Config.
type Options struct {
	Mode        Mode
	Type        Type
	SkuMode     sku.Mode
	SafetyStock int
	DryRun      bool

	// LocationID is the remote location inventory writes target. Must be
	// set when Type includes inventory and DryRun is false.
	LocationID string
}

// Options validates the raw config and returns runtime options.
func (c Config) Options() (Options, error) {
	opts := Options{
		SafetyStock: c.SafetyStock,
		DryRun:      c.DryRun,
	}

	switch Mode(c.Mode) {
	case ModeLocalFirst, ModeShopifyFirst:
		opts.Mode = Mode(c.Mode)
	default:
		return Options{}, fmt.Errorf("unknown sync mode %q", c.Mode)
	}

	switch Type(c.Type) {
	case TypePrice, TypeInventory, TypeBoth:
		opts.Type = Type(c.Type)
	default:
		return Options{}, fmt.Errorf("unknown sync type %q", c.Type)
	}

	mode, err := sku.ParseMode(c.SkuMode)
	if err != nil {
		return Options{}, err
	}
	opts.SkuMode = mode

	return opts, nil
}

// Outcome classifies what happened to one reconciliation item.
type Outcome string

const (
	OutcomePriceUpdated          Outcome = "price_updated"
	OutcomeInventoryUpdated      Outcome = "inventory_updated"
	OutcomeBothUpdated           Outcome = "both_updated"
	OutcomeNoChange              Outcome = "no_change"
	OutcomeSkippedNotFoundLocal  Outcome = "skipped_not_found_local"
	OutcomeSkippedNotFoundRemote Outcome = "skipped_not_found_remote"
	OutcomeSkippedInvalid        Outcome = "skipped_invalid"
	OutcomeError                 Outcome = "error"
)

// inventoryFor looks up the aggregated state for a key, trying aliases when
// the direct key is absent.
func inventoryFor(states map[string]inventory.State, key string, aliases []string) (inventory.State, bool) {
	if st, ok := states[key]; ok {
		return st, true
	}
	for _, a := range aliases {
		if st, ok := states[a]; ok {
			return st, true
		}
	}
	return inventory.State{}, false
}

// discountFor looks up the discount percent for a key, trying aliases when
// the direct key is absent.
func discountFor(discounts map[string]float64, key string, aliases []string) (float64, bool) {
	if pct, ok := discounts[key]; ok {
		return pct, true
	}
	for _, a := range aliases {
		if pct, ok := discounts[a]; ok {
			return pct, true
		}
	}
	return 0, false
}
