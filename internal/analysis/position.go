package analysis

import (
	"context"
	"time"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/jspark-dev/tacticscan/internal/obslog"
	"github.com/jspark-dev/tacticscan/internal/tactics"
)

// PositionAnalyzer classifies one played move against the oracle's
// recommendation: motifs the move executed, motifs the recommended
// alternative would have created (missed), and motifs the best reply
// now creates against the mover (allowed).
type PositionAnalyzer struct {
	oracle Oracle
	budget time.Duration
}

func NewPositionAnalyzer(oracle Oracle, budget time.Duration) *PositionAnalyzer {
	if budget <= 0 {
		budget = 100 * time.Millisecond
	}
	return &PositionAnalyzer{oracle: oracle, budget: budget}
}

// Analyze runs the two-query protocol for a single ply. The played
// move must be legal in snap; otherwise tactics.ErrIllegalMove is
// returned and the result is empty.
//
// Oracle failures are not errors here: a query that yields no
// recommendation only leaves the missed or allowed category empty for
// this ply, while executed stays fully computed.
func (a *PositionAnalyzer) Analyze(ctx context.Context, snap *tactics.Snapshot, played *nchess.Move) (PositionResult, error) {
	var res PositionResult

	pins, skewers, err := tactics.MoveTactics(snap, played)
	if err != nil {
		return PositionResult{}, err
	}
	res.Executed = records(pins, skewers)

	rec := a.oracle.Recommend(ctx, snap, a.budget)
	if rec.Status == RecommendationFailed {
		obslog.L().Debug("oracle_query_failed", zap.String("fen", snap.FEN()), zap.String("phase", "best_alternative"))
	}
	if best := a.decode(snap, rec); best != nil && !sameMove(best, played) {
		if mpins, mskewers, merr := tactics.MoveTactics(snap, best); merr == nil {
			res.Missed = records(mpins, mskewers)
		}
	}

	post, err := snap.Apply(played)
	if err != nil {
		// Legality was already established above; treat a failed apply
		// as the same contract violation.
		return PositionResult{}, err
	}
	if !post.IsTerminal() {
		reply := a.oracle.Recommend(ctx, post, a.budget)
		if reply.Status == RecommendationFailed {
			obslog.L().Debug("oracle_query_failed", zap.String("fen", post.FEN()), zap.String("phase", "best_reply"))
		}
		if replyMove := a.decode(post, reply); replyMove != nil {
			if apins, askewers, aerr := tactics.MoveTactics(post, replyMove); aerr == nil {
				res.Allowed = records(apins, askewers)
			}
		}
	}

	return res, nil
}

// decode turns a found recommendation into a move bound to the given
// position. Anything the position cannot interpret is treated as no
// recommendation.
func (a *PositionAnalyzer) decode(snap *tactics.Snapshot, rec Recommendation) *nchess.Move {
	if rec.Status != RecommendationFound || rec.MoveUCI == "" {
		return nil
	}
	mv, err := nchess.UCINotation{}.Decode(snap.Position(), rec.MoveUCI)
	if err != nil {
		obslog.L().Warn("oracle_move_undecodable", zap.String("move", rec.MoveUCI), zap.String("fen", snap.FEN()), zap.Error(err))
		return nil
	}
	return mv
}

func sameMove(a, b *nchess.Move) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.S1() == b.S1() && a.S2() == b.S2() && a.Promo() == b.Promo()
}
