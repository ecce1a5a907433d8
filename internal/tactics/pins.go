package tactics

import (
	nchess "github.com/corentings/chess/v2"
)

// DetectPins finds every piece of the side to move that is pinned
// against its own king. Squares are visited in ascending index order,
// so output ordering is stable for identical input.
func DetectPins(s *Snapshot) []Pin {
	stm := s.SideToMove()
	king, ok := s.KingSquare(stm)
	if !ok {
		return nil
	}

	var pins []Pin
	for sq := nchess.A1; sq <= nchess.H8; sq++ {
		pc := s.PieceAt(sq)
		if pc == nchess.NoPiece || pc.Color() != stm || pc.Type() == nchess.King {
			continue
		}
		toKing, colinear := DirectionBetween(sq, king)
		if !colinear {
			continue
		}
		// The segment between the candidate and its king has to be
		// empty; a second friendly piece on the line shields the one
		// farther out.
		if !segmentClear(s, sq, king, toKing) {
			continue
		}
		if pin, found := pinBehind(s, sq, toKing.Opposite(), stm, pc.Type()); found {
			pins = append(pins, pin)
		}
	}
	return pins
}

// pinBehind walks away from the king, past the candidate piece, and
// checks whether the first occupied square holds an enemy slider that
// attacks along this ray.
func pinBehind(s *Snapshot, from nchess.Square, away Direction, stm nchess.Color, pinnedKind nchess.PieceType) (Pin, bool) {
	cur := from
	for {
		next, ok := Step(cur, away)
		if !ok {
			return Pin{}, false
		}
		cur = next
		hit := s.PieceAt(cur)
		if hit == nchess.NoPiece {
			continue
		}
		if hit.Color() != stm && slidesAlong(hit.Type(), away) {
			return Pin{
				PinnedKind:    pinnedKind,
				PinnedSquare:  from,
				PinningKind:   hit.Type(),
				PinningSquare: cur,
			}, true
		}
		return Pin{}, false
	}
}

// segmentClear reports whether every square strictly between from and
// to (stepping in direction d) is empty.
func segmentClear(s *Snapshot, from, to nchess.Square, d Direction) bool {
	cur := from
	for {
		next, ok := Step(cur, d)
		if !ok || next == to {
			return ok
		}
		if s.PieceAt(next) != nchess.NoPiece {
			return false
		}
		cur = next
	}
}
