package recorder

import (
	"FlipSentinel/internal/engine"
	"FlipSentinel/internal/model"
)

// RunRecord holds the summary row for one engine invocation.
type RunRecord struct {
	Trigger       string // source of the run, e.g. "broadcast"
	Params        engine.Params
	RecCount      int
	EligibleCount int
	TopScore      float64
}

// Recorder persists engine run history for later analysis. The cache and
// engine never read this back; it is an audit sidecar only, and the noop
// implementation keeps the process fully in-memory.
type Recorder interface {
	RecordRun(run *RunRecord, recs []model.FlipRecommendation) error
	Close() error
}
