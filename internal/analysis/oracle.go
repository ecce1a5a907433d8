package analysis

import (
	"context"
	"time"

	"github.com/jspark-dev/tacticscan/internal/tactics"
)

// RecommendationStatus distinguishes "engine picked a move" from
// "position has no move to offer" and from "the query itself failed".
// Downstream code must never treat the last two alike silently.
type RecommendationStatus int

const (
	RecommendationFound RecommendationStatus = iota
	RecommendationNone
	RecommendationFailed
)

func (s RecommendationStatus) String() string {
	switch s {
	case RecommendationFound:
		return "found"
	case RecommendationNone:
		return "none"
	default:
		return "failed"
	}
}

// Recommendation is the outcome of one oracle query. MoveUCI is set
// only when Status is RecommendationFound.
type Recommendation struct {
	MoveUCI string
	Status  RecommendationStatus
}

// Oracle recommends a best move for a position within a time budget.
// Failures are expected to be absorbed into the Recommendation status;
// a stalled or broken oracle degrades coverage but never aborts the
// analysis that asked.
type Oracle interface {
	Recommend(ctx context.Context, snap *tactics.Snapshot, budget time.Duration) Recommendation
}
