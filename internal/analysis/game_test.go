package analysis

import (
	"context"
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/jspark-dev/tacticscan/internal/tactics"
)

func gameFromMoves(t *testing.T, fen string, moves ...string) *nchess.Game {
	t.Helper()
	opt, err := nchess.FEN(fen)
	if err != nil {
		t.Fatalf("parse fen %q: %v", fen, err)
	}
	game := nchess.NewGame(opt)
	for _, mv := range moves {
		if err := game.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
			t.Fatalf("push %q: %v", mv, err)
		}
	}
	return game
}

func quietAnalyzer() *GameAnalyzer {
	oracle := &scriptedOracle{} // always answers "no recommendation"
	return NewGameAnalyzer(NewPositionAnalyzer(oracle, time.Millisecond))
}

func TestAnalyzeGameMoveNumbering(t *testing.T) {
	// 1. Kb1 Ke7 2. Re1 pins the knight. The record must carry full
	// move number 2 and the mover's color.
	game := gameFromMoves(t, pinSetupFEN, "a1b1", "e8e7", "d1e1")

	result := quietAnalyzer().AnalyzeGame(context.Background(), game)
	if len(result.Executed) != 1 {
		t.Fatalf("executed = %d; want 1", len(result.Executed))
	}
	rec := result.Executed[0]
	if rec.MoveNumber != 2 {
		t.Fatalf("move number = %d; want 2", rec.MoveNumber)
	}
	if rec.Color != "white" {
		t.Fatalf("color = %q; want white", rec.Color)
	}
}

func TestAnalyzeTruncatesOnIllegalMove(t *testing.T) {
	snap := snapshotFromFEN(t, pinSetupFEN)
	legal := decodeMove(t, snap, "d1e1")

	start := tactics.NewSnapshot(nchess.NewGame().Position())
	foreign := decodeMove(t, start, "e2e4")

	plies := []Ply{
		{Before: snap, Move: legal},
		{Before: snap, Move: foreign}, // not legal here
	}
	result := quietAnalyzer().Analyze(context.Background(), plies)

	// Everything before the bad ply survives, nothing after it.
	if len(result.Executed) != 1 {
		t.Fatalf("executed = %d; want 1 from the legal prefix", len(result.Executed))
	}
}

func TestAnalyzeOpeningMoveIsQuiet(t *testing.T) {
	// 1. e4 from the starting position touches no tactical line.
	game := nchess.NewGame()
	if err := game.PushNotationMove("e2e4", nchess.UCINotation{}, nil); err != nil {
		t.Fatalf("push e2e4: %v", err)
	}

	result := quietAnalyzer().AnalyzeGame(context.Background(), game)
	if e, m, a := result.Counts(); e+m+a != 0 {
		t.Fatalf("counts = %d/%d/%d; want all zero", e, m, a)
	}
}

func TestAnalyzeNilGame(t *testing.T) {
	result := quietAnalyzer().AnalyzeGame(context.Background(), nil)
	if e, m, a := result.Counts(); e+m+a != 0 {
		t.Fatalf("counts = %d/%d/%d; want all zero", e, m, a)
	}
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	withPin := gameFromMoves(t, pinSetupFEN, "a1b1", "e8e7", "d1e1")
	quiet := gameFromMoves(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e2e4")

	items := []BatchItem{
		{Key: "game_1", White: "Anna", Black: "Ben", Game: withPin},
		{Key: "game_2", White: "Cara", Black: "Dan", Game: quiet},
	}
	reports := quietAnalyzer().AnalyzeBatch(context.Background(), items, 2)

	if len(reports) != 2 {
		t.Fatalf("reports = %d; want 2", len(reports))
	}
	if reports[0].Key != "game_1" || reports[1].Key != "game_2" {
		t.Fatalf("report order = %s, %s; want game_1, game_2", reports[0].Key, reports[1].Key)
	}
	if reports[0].ID == "" || reports[0].ID == reports[1].ID {
		t.Fatal("reports must carry distinct ids")
	}
	if e, _, _ := reports[0].Counts(); e != 1 {
		t.Fatalf("game_1 executed = %d; want 1", e)
	}
	if e, m, a := reports[1].Counts(); e+m+a != 0 {
		t.Fatalf("game_2 counts = %d/%d/%d; want all zero", e, m, a)
	}
}
