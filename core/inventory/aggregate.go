package inventory

import (
	"math"
	"strconv"
	"time"

	"catalog-sync/core/sku"

	"go.uber.org/zap"
)

// DefaultSafetyStock is the threshold used when none is configured.
const DefaultSafetyStock = 3

// LedgerEntry is one raw row from the inventory ledger feed. All fields are
// kept as strings exactly as fetched; parsing and validation happen here so a
// malformed row degrades to a warning instead of poisoning the whole run.
type LedgerEntry struct {
	SKU       string
	Timestamp string
	Initial   string
	Received  string
	Shipped   string
}

// State is the aggregated inventory position for one normalized SKU.
type State struct {
	// Key is the normalized SKU this state belongs to.
	Key string

	// Latest is the most recent ledger entry by timestamp.
	Latest LedgerEntry

	// Calculated is max(0, initial+received-shipped), floored to an integer.
	Calculated int

	// Published is the quantity to write to the remote catalog after the
	// safety-stock policy: zero when Calculated <= threshold, Calculated
	// otherwise. Never negative, never exceeds Calculated.
	Published int
}

// Options controls ledger aggregation.
type Options struct {
	// Mode is the SKU normalization mode used to group entries.
	Mode sku.Mode

	// SafetyStock is the threshold at or below which the published
	// quantity is forced to zero.
	SafetyStock int
}

// timestampLayouts are tried in order when parsing ledger timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Aggregate groups ledger entries by normalized SKU, selects the most recent
// entry per group and derives the calculated and published quantities.
//
// Entries whose SKU does not normalize are dropped with a warning. When the
// selected entry carries non-numeric quantities the SKU is left out of the
// result entirely: callers must treat its absence as "leave inventory alone",
// not as zero.
func Aggregate(entries []LedgerEntry, opts Options, log *zap.Logger) map[string]State {
	type candidate struct {
		entry LedgerEntry
		at    time.Time
	}

	latest := make(map[string]candidate)

	for _, e := range entries {
		res := sku.Normalize(e.SKU, opts.Mode)
		if !res.Valid {
			log.Warn("ledger entry dropped: sku does not normalize",
				zap.String("raw_sku", e.SKU))
			continue
		}

		at := parseTimestamp(e.Timestamp, log, res.Key)

		cur, seen := latest[res.Key]
		// Strictly-after keeps the first-seen entry on timestamp ties,
		// which makes tie-breaking deterministic for a stable feed order.
		if !seen || at.After(cur.at) {
			latest[res.Key] = candidate{entry: e, at: at}
		}
	}

	out := make(map[string]State, len(latest))
	for key, cand := range latest {
		calc, ok := calculate(cand.entry)
		if !ok {
			log.Warn("ledger entry has non-numeric quantities, sku excluded from this run",
				zap.String("sku", key),
				zap.String("initial", cand.entry.Initial),
				zap.String("received", cand.entry.Received),
				zap.String("shipped", cand.entry.Shipped))
			continue
		}

		published := calc
		if calc <= opts.SafetyStock {
			published = 0
		}

		out[key] = State{
			Key:        key,
			Latest:     cand.entry,
			Calculated: calc,
			Published:  published,
		}
	}

	return out
}

// parseTimestamp parses a ledger timestamp, falling back to the epoch for
// unparseable values so stale-looking rows sort last.
func parseTimestamp(raw string, log *zap.Logger, key string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	log.Warn("unparseable ledger timestamp, treating as epoch",
		zap.String("sku", key),
		zap.String("timestamp", raw))
	return time.Unix(0, 0).UTC()
}

// calculate derives max(0, initial+received-shipped) from a ledger entry,
// floored to an integer. ok is false when any field is non-numeric.
func calculate(e LedgerEntry) (int, bool) {
	initial, err1 := strconv.ParseFloat(e.Initial, 64)
	received, err2 := strconv.ParseFloat(e.Received, 64)
	shipped, err3 := strconv.ParseFloat(e.Shipped, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}

	qty := math.Floor(initial + received - shipped)
	if qty < 0 {
		qty = 0
	}
	return int(qty), true
}
