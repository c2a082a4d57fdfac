// Package discount overlays percentage discounts onto local base prices.
//
// Discounts arrive as CSV rows "sku,discount" from a configurable location:
// a local file, an HTTP(S) URL, or an s3:// object. The source is advisory —
// a missing or unreachable discount file degrades the run to full prices with
// a warning, it never aborts the sync. Individual malformed rows are skipped
// the same way.
//
// Only percentages strictly between 0 and 100 change a price; anything else
// is a no-op, so a fat-fingered "250" in the CSV cannot produce a negative
// sell price.
package discount
