package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jspark-dev/tacticscan/internal/analysis"
)

// Batch is the aggregate handed to every sink: the per-game reports of
// one analysis run, keyed the way the JSON output expects them.
type Batch struct {
	RunID      string                         `json:"run_id"`
	StartedAt  time.Time                      `json:"started_at"`
	FinishedAt time.Time                      `json:"finished_at"`
	Games      map[string]analysis.GameReport `json:"games"`
}

// NewBatch wraps the ordered reports into an aggregate with a fresh
// run ID.
func NewBatch(reports []analysis.GameReport, startedAt time.Time) *Batch {
	games := make(map[string]analysis.GameReport, len(reports))
	for _, rep := range reports {
		games[rep.Key] = rep
	}
	return &Batch{
		RunID:      uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Games:      games,
	}
}

// Totals sums the three categories over the whole batch.
func (b *Batch) Totals() (executed, missed, allowed int) {
	for _, rep := range b.Games {
		e, m, a := rep.Counts()
		executed += e
		missed += m
		allowed += a
	}
	return executed, missed, allowed
}

// WriteJSON serializes the batch to path with stable indentation.
func WriteJSON(path string, batch *Batch) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create result dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
