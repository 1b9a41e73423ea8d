package results

import (
	"time"

	"subocr/internal/analysis"
)

// Run summarizes one batch invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
}

// Record captures the outcome for a single video within a run.
type Record struct {
	ID        int64
	RunID     string
	Video     string
	Success   bool
	Message   string
	OutputSRT string
	Report    analysis.Report
	CreatedAt time.Time
}
