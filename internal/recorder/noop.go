package recorder

import "FlipSentinel/internal/model"

// NoopRecorder discards everything. Used when no database path is set.
type NoopRecorder struct{}

// NewNoopRecorder creates a recorder that does nothing.
func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord, _ []model.FlipRecommendation) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
