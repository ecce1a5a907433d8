package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jspark-dev/tacticscan/internal/analysis"
	"github.com/jspark-dev/tacticscan/internal/obslog"
	"github.com/jspark-dev/tacticscan/internal/oracle/uci"
	"github.com/jspark-dev/tacticscan/internal/tactics"
)

type EngineConfig struct {
	BinaryPath string
	Threads    int
	HashMB     int
	Sessions   int
}

// Engine is the UCI-backed best-move oracle. Query failures are folded
// into the recommendation status; callers never see a hard error.
type Engine struct {
	pool *uci.Pool
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	pool, err := uci.NewPool(uci.PoolConfig{
		BinaryPath: cfg.BinaryPath,
		Options: uci.Options{
			Threads: cfg.Threads,
			HashMB:  cfg.HashMB,
		},
		Capacity: cfg.Sessions,
	})
	if err != nil {
		return nil, err
	}
	return &Engine{pool: pool}, nil
}

func (e *Engine) Recommend(ctx context.Context, snap *tactics.Snapshot, budget time.Duration) analysis.Recommendation {
	if snap == nil {
		return analysis.Recommendation{Status: analysis.RecommendationFailed}
	}
	if budget <= 0 {
		budget = 100 * time.Millisecond
	}

	session, err := e.pool.Acquire(ctx)
	if err != nil {
		obslog.L().Warn("oracle_acquire_failed", zap.Error(err))
		return analysis.Recommendation{Status: analysis.RecommendationFailed}
	}
	var releaseErr error
	defer func() {
		e.pool.Release(session, releaseErr)
	}()

	resp, err := session.Search(ctx, uci.SearchRequest{
		FEN: snap.FEN(),
		Limits: uci.Limits{
			MoveTimeMillis: int(budget / time.Millisecond),
		},
	})
	if err != nil {
		releaseErr = err
		obslog.L().Warn("oracle_search_failed", zap.String("fen", snap.FEN()), zap.Error(err))
		return analysis.Recommendation{Status: analysis.RecommendationFailed}
	}

	if resp.Move == "" {
		return analysis.Recommendation{Status: analysis.RecommendationNone}
	}
	return analysis.Recommendation{MoveUCI: resp.Move, Status: analysis.RecommendationFound}
}

func (e *Engine) Close() error {
	if e.pool == nil {
		return nil
	}
	return e.pool.Close()
}
