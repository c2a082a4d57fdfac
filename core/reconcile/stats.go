package reconcile

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunStats accumulates per-item outcomes across the concurrent fan-out.
// Counters are atomic; item goroutines only ever increment, the final
// summary is read after the join.
type RunStats struct {
	// RunID identifies this run in logs and the final summary.
	RunID string
	// StartedAt is when the run began.
	StartedAt time.Time

	priceUpdated          atomic.Int64
	inventoryUpdated      atomic.Int64
	bothUpdated           atomic.Int64
	noChange              atomic.Int64
	skippedNotFoundLocal  atomic.Int64
	skippedNotFoundRemote atomic.Int64
	skippedInvalid        atomic.Int64
	errored               atomic.Int64

	duration time.Duration
}

// NewRunStats creates stats for a fresh run with a unique run ID.
func NewRunStats() *RunStats {
	return &RunStats{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Record tallies one item outcome. Safe for concurrent use.
func (s *RunStats) Record(o Outcome) {
	switch o {
	case OutcomePriceUpdated:
		s.priceUpdated.Add(1)
	case OutcomeInventoryUpdated:
		s.inventoryUpdated.Add(1)
	case OutcomeBothUpdated:
		s.bothUpdated.Add(1)
	case OutcomeNoChange:
		s.noChange.Add(1)
	case OutcomeSkippedNotFoundLocal:
		s.skippedNotFoundLocal.Add(1)
	case OutcomeSkippedNotFoundRemote:
		s.skippedNotFoundRemote.Add(1)
	case OutcomeSkippedInvalid:
		s.skippedInvalid.Add(1)
	case OutcomeError:
		s.errored.Add(1)
	}
}

// Finish stamps the run duration. Call after all item tasks have joined.
func (s *RunStats) Finish() {
	s.duration = time.Since(s.StartedAt)
}

// Summary is the final structured run report.
type Summary struct {
	RunID                 string        `json:"run_id"`
	Duration              time.Duration `json:"duration"`
	PriceUpdated          int64         `json:"price_updated"`
	InventoryUpdated      int64         `json:"inventory_updated"`
	BothUpdated           int64         `json:"both_updated"`
	NoChange              int64         `json:"no_change"`
	SkippedNotFoundLocal  int64         `json:"skipped_not_found_local"`
	SkippedNotFoundRemote int64         `json:"skipped_not_found_remote"`
	SkippedInvalid        int64         `json:"skipped_invalid"`
	Errors                int64         `json:"errors"`
}

// Summary snapshots the counters.
func (s *RunStats) Summary() Summary {
	return Summary{
		RunID:                 s.RunID,
		Duration:              s.duration,
		PriceUpdated:          s.priceUpdated.Load(),
		InventoryUpdated:      s.inventoryUpdated.Load(),
		BothUpdated:           s.bothUpdated.Load(),
		NoChange:              s.noChange.Load(),
		SkippedNotFoundLocal:  s.skippedNotFoundLocal.Load(),
		SkippedNotFoundRemote: s.skippedNotFoundRemote.Load(),
		SkippedInvalid:        s.skippedInvalid.Load(),
		Errors:                s.errored.Load(),
	}
}

// TotalWrites is the number of items that had at least one write issued.
func (sum Summary) TotalWrites() int64 {
	return sum.PriceUpdated + sum.InventoryUpdated + sum.BothUpdated
}

// Log emits the summary as one structured record. Emitted on every run,
// item-level failures included.
func (sum Summary) Log(l *zap.Logger) {
	l.Info("reconciliation run summary",
		zap.String("run_id", sum.RunID),
		zap.Duration("duration", sum.Duration),
		zap.Int64("price_updated", sum.PriceUpdated),
		zap.Int64("inventory_updated", sum.InventoryUpdated),
		zap.Int64("both_updated", sum.BothUpdated),
		zap.Int64("no_change", sum.NoChange),
		zap.Int64("skipped_not_found_local", sum.SkippedNotFoundLocal),
		zap.Int64("skipped_not_found_remote", sum.SkippedNotFoundRemote),
		zap.Int64("skipped_invalid", sum.SkippedInvalid),
		zap.Int64("errors", sum.Errors),
	)
}
