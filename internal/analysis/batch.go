package analysis

import (
	"context"
	"sync"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jspark-dev/tacticscan/internal/obslog"
)

// BatchItem is one game queued for analysis.
type BatchItem struct {
	Key   string
	White string
	Black string
	Game  *nchess.Game
}

// GameReport is the sink-facing result for one game.
type GameReport struct {
	ID    string `json:"id"`
	Key   string `json:"-"`
	White string `json:"white,omitempty"`
	Black string `json:"black,omitempty"`
	GameResult
}

// AnalyzeBatch runs the analyzer over a set of independent games.
// Games share nothing, so they fan out across workers; report order
// matches input order regardless of completion order.
func (ga *GameAnalyzer) AnalyzeBatch(ctx context.Context, items []BatchItem, workers int) []GameReport {
	if len(items) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	reports := make([]GameReport, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = ga.analyzeItem(ctx, items[i])
			}
		}()
	}

dispatch:
	for i := range items {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return reports
}

func (ga *GameAnalyzer) analyzeItem(ctx context.Context, item BatchItem) GameReport {
	start := time.Now()
	obslog.L().Info("game_analyze_start",
		zap.String("key", item.Key),
		zap.String("white", item.White),
		zap.String("black", item.Black),
	)

	result := ga.AnalyzeGame(ctx, item.Game)
	executed, missed, allowed := result.Counts()
	obslog.L().Info("game_analyze_done",
		zap.String("key", item.Key),
		zap.Int("executed", executed),
		zap.Int("missed", missed),
		zap.Int("allowed", allowed),
		zap.Duration("took", time.Since(start)),
	)

	return GameReport{
		ID:         uuid.NewString(),
		Key:        item.Key,
		White:      item.White,
		Black:      item.Black,
		GameResult: result,
	}
}
