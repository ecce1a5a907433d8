package tactics

import (
	"errors"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func decodeMove(t *testing.T, s *Snapshot, uci string) *nchess.Move {
	t.Helper()
	mv, err := nchess.UCINotation{}.Decode(s.Position(), uci)
	if err != nil {
		t.Fatalf("decode %q: %v", uci, err)
	}
	return mv
}

func TestMoveTacticsCreatesPin(t *testing.T) {
	// After Rd1-e1 the black knight on e4 is pinned against its king
	// on e8.
	s := snapshotFromFEN(t, "4k3/8/8/8/4n3/8/8/K2R4 w - - 0 1")

	pins, skewers, err := MoveTactics(s, decodeMove(t, s, "d1e1"))
	if err != nil {
		t.Fatalf("MoveTactics: %v", err)
	}
	if len(skewers) != 0 {
		t.Fatalf("skewers = %v; want none", skewers)
	}
	if len(pins) != 1 {
		t.Fatalf("pins = %d; want 1", len(pins))
	}
	want := Pin{
		PinnedKind:    nchess.Knight,
		PinnedSquare:  nchess.E4,
		PinningKind:   nchess.Rook,
		PinningSquare: nchess.E1,
	}
	if pins[0] != want {
		t.Fatalf("pin = %+v; want %+v", pins[0], want)
	}
}

func TestMoveTacticsLeavesSnapshotUntouched(t *testing.T) {
	s := snapshotFromFEN(t, "4k3/8/8/8/4n3/8/8/K2R4 w - - 0 1")
	before := s.FEN()

	if _, _, err := MoveTactics(s, decodeMove(t, s, "d1e1")); err != nil {
		t.Fatalf("MoveTactics: %v", err)
	}
	if s.FEN() != before {
		t.Fatalf("snapshot mutated: %s -> %s", before, s.FEN())
	}
}

func TestMoveTacticsIllegalMove(t *testing.T) {
	s := snapshotFromFEN(t, "4k3/8/8/8/4n3/8/8/K2R4 w - - 0 1")

	// A legal opening move decoded elsewhere is not legal here.
	start := NewSnapshot(nchess.NewGame().Position())
	foreign := decodeMove(t, start, "e2e4")

	_, _, err := MoveTactics(s, foreign)
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v; want ErrIllegalMove", err)
	}
}

func TestSnapshotApplyRejectsNil(t *testing.T) {
	s := snapshotFromFEN(t, "4k3/8/8/8/4n3/8/8/K2R4 w - - 0 1")
	if _, err := s.Apply(nil); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("err = %v; want ErrIllegalMove", err)
	}
}

func TestSnapshotTerminal(t *testing.T) {
	// Back-rank mate: White has just delivered checkmate.
	mate := snapshotFromFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	after, err := mate.Apply(decodeMove(t, mate, "a1a8"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !after.IsTerminal() {
		t.Fatal("checkmated position must be terminal")
	}
	if mate.IsTerminal() {
		t.Fatal("pre-mate position must not be terminal")
	}
}

func TestPieceValueOrdering(t *testing.T) {
	if PieceValue(nchess.King) <= PieceValue(nchess.Queen) {
		t.Fatal("king must outrank the queen")
	}
	if PieceValue(nchess.Knight) != PieceValue(nchess.Bishop) {
		t.Fatal("minor pieces share a value")
	}
	if PieceValue(nchess.Pawn) >= PieceValue(nchess.Knight) {
		t.Fatal("pawn must be the cheapest piece")
	}
}
