package feeds

import (
	"context"
	"fmt"

	"catalog-sync/core/inventory"
	"catalog-sync/core/utils"

	"gorm.io/gorm"
)

// dbFeed reads both feeds from the merchant database using raw-row queries,
// so schema drift in unrelated columns cannot break the fetch.
type dbFeed struct {
	db  *gorm.DB
	cfg Config
}

func (f *dbFeed) FetchProducts(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf("SELECT sku, price FROM %s", f.cfg.ProductTable)
	rows, err := f.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query price feed: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var skuVal, priceVal any
		if err := rows.Scan(&skuVal, &priceVal); err != nil {
			return nil, fmt.Errorf("failed to scan price feed row: %w", err)
		}
		products = append(products, Product{
			SKU:   utils.ToString(skuVal),
			Price: utils.ToString(priceVal),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("price feed rows: %w", err)
	}

	return products, nil
}

func (f *dbFeed) FetchLedger(ctx context.Context) ([]inventory.LedgerEntry, error) {
	query := fmt.Sprintf(
		"SELECT sku, recorded_at, initial_qty, received_qty, shipped_qty FROM %s",
		f.cfg.LedgerTable)
	rows, err := f.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory ledger: %w", err)
	}
	defer rows.Close()

	var entries []inventory.LedgerEntry
	for rows.Next() {
		var skuVal, tsVal, initialVal, receivedVal, shippedVal any
		if err := rows.Scan(&skuVal, &tsVal, &initialVal, &receivedVal, &shippedVal); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		entries = append(entries, inventory.LedgerEntry{
			SKU:       utils.ToString(skuVal),
			Timestamp: utils.ToString(tsVal),
			Initial:   utils.ToString(initialVal),
			Received:  utils.ToString(receivedVal),
			Shipped:   utils.ToString(shippedVal),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory ledger rows: %w", err)
	}

	return entries, nil
}
