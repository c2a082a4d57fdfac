package discount

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"catalog-sync/core/sku"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Apply returns the effective price after discounting: base * (1 - pct/100),
// rounded to 2 decimal places. Percentages outside the open interval (0,100)
// are no-ops and return the base price unchanged.
func Apply(base decimal.Decimal, pct float64) decimal.Decimal {
	if pct <= 0 || pct >= 100 {
		return base
	}
	factor := decimal.NewFromFloat(1 - pct/100)
	return base.Mul(factor).Round(2)
}

// Load reads the discount source and returns a normalized-SKU -> percent map.
// Rows that fail to parse are skipped with a warning; they never abort the
// load. A nil source (no location configured) yields an empty map.
func Load(ctx context.Context, src Source, mode sku.Mode, log *zap.Logger) (map[string]float64, error) {
	if src == nil {
		return map[string]float64{}, nil
	}

	r, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return parseCSV(r, mode, log), nil
}

// LoadOrEmpty wraps Load and degrades a wholly unreachable source to an
// empty map with a warning. The run proceeds at full prices.
func LoadOrEmpty(ctx context.Context, src Source, mode sku.Mode, log *zap.Logger) map[string]float64 {
	m, err := Load(ctx, src, mode, log)
	if err != nil {
		log.Warn("discount source unreachable, continuing without discounts",
			zap.Error(err))
		return map[string]float64{}
	}
	return m
}

// parseCSV reads "sku,discount" rows. Duplicate SKUs resolve last-write-wins
// with a warning, matching the join semantics everywhere else in the sync.
func parseCSV(r io.Reader, mode sku.Mode, log *zap.Logger) map[string]float64 {
	out := make(map[string]float64)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn("discount row unreadable, skipping", zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(record) < 2 {
			log.Warn("discount row has too few columns, skipping", zap.Int("line", line))
			continue
		}

		res := sku.Normalize(record[0], mode)
		if !res.Valid {
			log.Warn("discount row sku does not normalize, skipping",
				zap.Int("line", line), zap.String("raw_sku", record[0]))
			continue
		}

		pct, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			// Tolerates a header row without special-casing it.
			log.Warn("discount row percent not numeric, skipping",
				zap.Int("line", line), zap.String("value", record[1]))
			continue
		}

		if _, dup := out[res.Key]; dup {
			log.Warn("duplicate discount sku, last row wins", zap.String("sku", res.Key))
		}
		out[res.Key] = pct
	}

	return out
}
