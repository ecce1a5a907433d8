package analysis

import (
	"context"
	"errors"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/jspark-dev/tacticscan/internal/obslog"
	"github.com/jspark-dev/tacticscan/internal/tactics"
)

// Ply is one mainline half-move together with the position it was
// played from.
type Ply struct {
	Before *tactics.Snapshot
	Move   *nchess.Move
}

// GameAnalyzer replays a game ply by ply and aggregates the tagged
// classifications. It carries no state between games.
type GameAnalyzer struct {
	position *PositionAnalyzer
}

func NewGameAnalyzer(pa *PositionAnalyzer) *GameAnalyzer {
	return &GameAnalyzer{position: pa}
}

// Analyze walks the mainline in order. An illegal move ends the game
// early: everything accumulated up to that ply is returned and no
// error escapes, so one bad record never poisons a batch.
func (ga *GameAnalyzer) Analyze(ctx context.Context, plies []Ply) GameResult {
	var result GameResult
	moveNumber := 1

	for i, ply := range plies {
		if ctx.Err() != nil {
			break
		}
		if ply.Before == nil || !ply.Before.IsLegal(ply.Move) {
			obslog.L().Warn("game_truncated_illegal_move", zap.Int("ply", i+1))
			break
		}
		mover := ply.Before.SideToMove()

		res, err := ga.position.Analyze(ctx, ply.Before, ply.Move)
		if err != nil {
			if errors.Is(err, tactics.ErrIllegalMove) {
				obslog.L().Warn("game_truncated_illegal_move", zap.Int("ply", i+1))
			} else {
				obslog.L().Error("position_analyze_error", zap.Int("ply", i+1), zap.Error(err))
			}
			break
		}

		tagRecords(res.Executed, moveNumber, mover)
		tagRecords(res.Missed, moveNumber, mover)
		tagRecords(res.Allowed, moveNumber, mover)
		result.append(res)

		// Full-move numbering: advance only once Black has replied.
		if mover == nchess.Black {
			moveNumber++
		}
	}
	return result
}

// AnalyzeGame adapts a parsed game into (position, move) pairs and
// analyzes its mainline.
func (ga *GameAnalyzer) AnalyzeGame(ctx context.Context, game *nchess.Game) GameResult {
	if game == nil {
		return GameResult{}
	}
	positions := game.Positions()
	moves := game.Moves()

	plies := make([]Ply, 0, len(moves))
	for i, mv := range moves {
		if i >= len(positions) {
			break
		}
		plies = append(plies, Ply{Before: tactics.NewSnapshot(positions[i]), Move: mv})
	}
	return ga.Analyze(ctx, plies)
}

func tagRecords(rs []TacticRecord, moveNumber int, mover nchess.Color) {
	for i := range rs {
		rs[i].MoveNumber = moveNumber
		rs[i].Color = colorName(mover)
	}
}
