package feeds

import (
	"context"
	"fmt"

	"catalog-sync/core/inventory"

	"gorm.io/gorm"
)

// Product is one raw record from the price feed: a raw SKU and a base sell
// price as published (decimal string, 2dp expected but not enforced here).
type Product struct {
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

// PriceFeed fetches the product price records for one run.
type PriceFeed interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// LedgerFeed fetches the raw inventory ledger entries for one run.
type LedgerFeed interface {
	FetchLedger(ctx context.Context) ([]inventory.LedgerEntry, error)
}

// New builds the configured feed pair. The database handle may be nil when
// the http source is configured.
func New(cfg Config, db *gorm.DB) (PriceFeed, LedgerFeed, error) {
	switch cfg.Source {
	case SourceDatabase:
		if db == nil {
			return nil, nil, fmt.Errorf("feed source %q requires database configuration", cfg.Source)
		}
		f := &dbFeed{db: db, cfg: cfg}
		return f, f, nil
	case SourceHTTP:
		if cfg.ProductURL == "" || cfg.LedgerURL == "" {
			return nil, nil, fmt.Errorf("feed source %q requires product_url and ledger_url", cfg.Source)
		}
		f := newHTTPFeed(cfg)
		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("unknown feed source %q", cfg.Source)
	}
}
