package tactics

import (
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func snapshotFromFEN(t *testing.T, fen string) *Snapshot {
	t.Helper()
	opt, err := nchess.FEN(fen)
	if err != nil {
		t.Fatalf("parse fen %q: %v", fen, err)
	}
	return NewSnapshot(nchess.NewGame(opt).Position())
}

func TestDetectPinsOrthogonal(t *testing.T) {
	// White knight on e4 sits between its king on e1 and a black rook
	// on e8.
	s := snapshotFromFEN(t, "k3r3/8/8/8/4N3/8/8/4K3 w - - 0 1")

	pins := DetectPins(s)
	if len(pins) != 1 {
		t.Fatalf("pins = %d; want 1", len(pins))
	}
	got := pins[0]
	want := Pin{
		PinnedKind:    nchess.Knight,
		PinnedSquare:  nchess.E4,
		PinningKind:   nchess.Rook,
		PinningSquare: nchess.E8,
	}
	if got != want {
		t.Fatalf("pin = %+v; want %+v", got, want)
	}
}

func TestDetectPinsDiagonal(t *testing.T) {
	// Black bishop on f7 pinned against the king on g8 by a white
	// bishop on b3.
	s := snapshotFromFEN(t, "6k1/5b2/8/8/8/1B6/8/6K1 b - - 0 1")

	pins := DetectPins(s)
	if len(pins) != 1 {
		t.Fatalf("pins = %d; want 1", len(pins))
	}
	got := pins[0]
	want := Pin{
		PinnedKind:    nchess.Bishop,
		PinnedSquare:  nchess.F7,
		PinningKind:   nchess.Bishop,
		PinningSquare: nchess.B3,
	}
	if got != want {
		t.Fatalf("pin = %+v; want %+v", got, want)
	}
}

func TestDetectPinsBlockedSegment(t *testing.T) {
	// Same rook lineup as the orthogonal case, but a white pawn on e3
	// shields the knight from its own king. Neither piece is pinned.
	s := snapshotFromFEN(t, "k3r3/8/8/8/4N3/4P3/8/4K3 w - - 0 1")

	if pins := DetectPins(s); len(pins) != 0 {
		t.Fatalf("pins = %v; want none", pins)
	}
}

func TestDetectPinsFriendlyBlockerBehind(t *testing.T) {
	// A black pawn on e6 stands between the knight and the rook, so
	// the rook never reaches the knight's line of sight.
	s := snapshotFromFEN(t, "k3r3/8/4p3/8/4N3/8/8/4K3 w - - 0 1")

	if pins := DetectPins(s); len(pins) != 0 {
		t.Fatalf("pins = %v; want none", pins)
	}
}

func TestDetectPinsNonSliderCannotPin(t *testing.T) {
	// A knight on e8 has no ray, so nothing on the e-file is pinned.
	s := snapshotFromFEN(t, "k3n3/8/8/8/4N3/8/8/4K3 w - - 0 1")

	if pins := DetectPins(s); len(pins) != 0 {
		t.Fatalf("pins = %v; want none", pins)
	}
}

func TestDetectPinsOnlySideToMove(t *testing.T) {
	// The pinned knight belongs to White; with Black to move the
	// detector must stay silent.
	s := snapshotFromFEN(t, "k3r3/8/8/8/4N3/8/8/4K3 b - - 0 1")

	if pins := DetectPins(s); len(pins) != 0 {
		t.Fatalf("pins = %v; want none for the other side", pins)
	}
}

func TestDetectPinsIdempotent(t *testing.T) {
	s := snapshotFromFEN(t, "k3r3/8/8/8/4N3/8/8/4K3 w - - 0 1")

	first := DetectPins(s)
	second := DetectPins(s)
	if len(first) != len(second) {
		t.Fatalf("repeat runs disagree: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pin %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
