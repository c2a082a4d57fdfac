package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FetchAllVariants drains the remote variant catalog page by page. The
// continuation cursor is the cursor of the last edge on each page; the loop
// stops when the API reports no next page, when a page comes back empty, or
// when the hard page ceiling is reached.
//
// Variants missing their inventory-item identifier or variant id cannot be
// written to and are skipped with a warning instead of failing the fetch.
func FetchAllVariants(ctx context.Context, api API, pageSize, maxPages int, log *zap.Logger) ([]Variant, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	if maxPages <= 0 {
		maxPages = 500
	}

	var (
		all    []Variant
		cursor string
	)

	for pageNum := 1; ; pageNum++ {
		if pageNum > maxPages {
			// Safety valve against server-side pagination bugs. Loudly
			// truncated, never silently.
			log.Warn("variant fetch hit page ceiling, catalog snapshot is truncated",
				zap.Int("max_pages", maxPages),
				zap.Int("variants", len(all)))
			break
		}

		page, err := api.ListVariants(ctx, cursor, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch variant page %d: %w", pageNum, err)
		}

		if len(page.Variants) == 0 {
			break
		}

		for _, v := range page.Variants {
			if v.ID == "" || v.InventoryItemID == "" {
				log.Warn("variant missing required identifiers, skipping",
					zap.String("sku", v.SKU),
					zap.String("variant_id", v.ID))
				continue
			}
			all = append(all, v)
		}

		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}

	return all, nil
}
