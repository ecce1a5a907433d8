package tactics

import (
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func TestDetectSkewersRookThroughBishop(t *testing.T) {
	// White rook on e1 attacks a black bishop on e4 with the black
	// queen standing behind it on e8.
	s := snapshotFromFEN(t, "4q3/8/8/8/4b3/8/8/K3R3 w - - 0 1")

	skewers := DetectSkewers(s)
	if len(skewers) != 1 {
		t.Fatalf("skewers = %d; want 1", len(skewers))
	}
	got := skewers[0]
	want := Skewer{
		AttackerKind:   nchess.Rook,
		AttackerSquare: nchess.E1,
		FrontKind:      nchess.Bishop,
		FrontSquare:    nchess.E4,
		BackKind:       nchess.Queen,
		BackSquare:     nchess.E8,
	}
	if got != want {
		t.Fatalf("skewer = %+v; want %+v", got, want)
	}
}

func TestDetectSkewersKingBehind(t *testing.T) {
	// The classic shape: queen in front, king behind.
	s := snapshotFromFEN(t, "4k3/8/8/8/4q3/8/8/K3R3 w - - 0 1")

	skewers := DetectSkewers(s)
	if len(skewers) != 1 {
		t.Fatalf("skewers = %d; want 1", len(skewers))
	}
	if skewers[0].BackKind != nchess.King || skewers[0].FrontKind != nchess.Queen {
		t.Fatalf("skewer = %+v; want queen front, king back", skewers[0])
	}
}

func TestDetectSkewersEqualValuesExcluded(t *testing.T) {
	// Rook behind rook is an x-ray, not a skewer.
	s := snapshotFromFEN(t, "4r3/8/8/8/4r3/8/8/K3R3 w - - 0 1")

	if skewers := DetectSkewers(s); len(skewers) != 0 {
		t.Fatalf("skewers = %v; want none for equal values", skewers)
	}
}

func TestDetectSkewersCheaperBehindExcluded(t *testing.T) {
	// Queen in front of a bishop is a potential pin shape, never a
	// skewer.
	s := snapshotFromFEN(t, "4b3/8/8/8/4q3/8/8/K3R3 w - - 0 1")

	if skewers := DetectSkewers(s); len(skewers) != 0 {
		t.Fatalf("skewers = %v; want none when the back piece is cheaper", skewers)
	}
}

func TestDetectSkewersFriendlyBlockerStopsRay(t *testing.T) {
	// A white pawn on e2 blocks the rook's ray before any target.
	s := snapshotFromFEN(t, "4q3/8/8/8/4b3/8/4P3/K3R3 w - - 0 1")

	if skewers := DetectSkewers(s); len(skewers) != 0 {
		t.Fatalf("skewers = %v; want none behind a friendly blocker", skewers)
	}
}

func TestDetectSkewersDiagonal(t *testing.T) {
	// White bishop on b2 skewers the black rook on e5 against the
	// queen on h8.
	s := snapshotFromFEN(t, "7q/8/8/4r3/8/8/1B6/K7 w - - 0 1")

	skewers := DetectSkewers(s)
	if len(skewers) != 1 {
		t.Fatalf("skewers = %d; want 1", len(skewers))
	}
	got := skewers[0]
	if got.AttackerSquare != nchess.B2 || got.FrontSquare != nchess.E5 || got.BackSquare != nchess.H8 {
		t.Fatalf("skewer = %+v; want b2 through e5 onto h8", got)
	}
}

func TestDetectSkewersOnlySideToMove(t *testing.T) {
	s := snapshotFromFEN(t, "4q3/8/8/8/4b3/8/8/K3R3 b - - 0 1")

	// Black's sliders see nothing skewerable here.
	if skewers := DetectSkewers(s); len(skewers) != 0 {
		t.Fatalf("skewers = %v; want none for the other side", skewers)
	}
}
