package tactics

import (
	nchess "github.com/corentings/chess/v2"
)

// MoveTactics applies mv to a private copy of the snapshot and returns
// the pins and skewers present on the resulting position. The input
// snapshot is never modified. An illegal move yields ErrIllegalMove.
//
// Both detectors run relative to the side to move of the resulting
// position: pins are those the mover clamped onto the opponent, while
// skewer lines are scanned for the opponent's sliders only. The
// asymmetry is deliberate and matches how results are consumed
// downstream (allowed-tactic checks run on the same orientation).
func MoveTactics(s *Snapshot, mv *nchess.Move) ([]Pin, []Skewer, error) {
	next, err := s.Apply(mv)
	if err != nil {
		return nil, nil, err
	}
	return DetectPins(next), DetectSkewers(next), nil
}
