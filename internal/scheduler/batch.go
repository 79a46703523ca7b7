package scheduler

import (
	"time"

	"github.com/google/uuid"

	"aurum/internal/domain/technique"
)

// PairResult is the outcome of evaluating one asset-technique pair
// inside a batch. Failures carry the error message; successes carry
// the recorded insight ID.
type PairResult struct {
	AssetSymbol    string    `json:"asset_symbol"`
	TechniqueTitle string    `json:"technique_title"`
	InsightID      uuid.UUID `json:"insight_id,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// BatchResult summarizes one periodicity batch. Pair failures are
// isolated: a batch with errors still reports the successes.
type BatchResult struct {
	Periodicity technique.Periodicity `json:"periodicity"`
	Total       int                   `json:"total"`
	Succeeded   int                   `json:"succeeded"`
	Failed      int                   `json:"failed"`
	Skipped     bool                  `json:"skipped,omitempty"`
	Pairs       []PairResult          `json:"pairs"`
	StartedAt   time.Time             `json:"started_at"`
	FinishedAt  time.Time             `json:"finished_at"`
}

// TriggerStatus reports one registered cron trigger
type TriggerStatus struct {
	Periodicity technique.Periodicity `json:"periodicity"`
	Spec        string                `json:"spec"`
	NextRun     *time.Time            `json:"next_run,omitempty"`
}

// Status is the scheduler's externally visible state
type Status struct {
	Running  bool            `json:"running"`
	Timezone string          `json:"timezone"`
	Triggers []TriggerStatus `json:"triggers"`
}
