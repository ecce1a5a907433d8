package tactics

import (
	nchess "github.com/corentings/chess/v2"
)

// DetectSkewers finds every line along which a sliding piece of the
// side to move attacks two enemy pieces in sequence with the more
// valuable one standing behind. Rays from one attacker are reported
// independently; no deduplication across directions is attempted.
func DetectSkewers(s *Snapshot) []Skewer {
	stm := s.SideToMove()

	var skewers []Skewer
	for sq := nchess.A1; sq <= nchess.H8; sq++ {
		pc := s.PieceAt(sq)
		if pc == nchess.NoPiece || pc.Color() != stm {
			continue
		}
		dirs := slideDirections(pc.Type())
		if len(dirs) == 0 {
			continue
		}
		for _, d := range dirs {
			if sk, found := skewerOnRay(s, sq, d, pc.Type(), stm); found {
				skewers = append(skewers, sk)
			}
		}
	}
	return skewers
}

// skewerOnRay collects up to two enemy pieces along one ray, stopping
// early at a friendly blocker or the board edge.
func skewerOnRay(s *Snapshot, from nchess.Square, d Direction, attacker nchess.PieceType, stm nchess.Color) (Skewer, bool) {
	type target struct {
		kind nchess.PieceType
		sq   nchess.Square
	}
	var line []target

	cur := from
	for len(line) < 2 {
		next, ok := Step(cur, d)
		if !ok {
			break
		}
		cur = next
		hit := s.PieceAt(cur)
		if hit == nchess.NoPiece {
			continue
		}
		if hit.Color() == stm {
			break
		}
		line = append(line, target{kind: hit.Type(), sq: cur})
	}

	if len(line) != 2 {
		return Skewer{}, false
	}
	front, back := line[0], line[1]
	// Equal values do not qualify; the line must win material by
	// forcing the cheaper front piece aside.
	if PieceValue(back.kind) <= PieceValue(front.kind) {
		return Skewer{}, false
	}
	return Skewer{
		AttackerKind:   attacker,
		AttackerSquare: from,
		FrontKind:      front.kind,
		FrontSquare:    front.sq,
		BackKind:       back.kind,
		BackSquare:     back.sq,
	}, true
}
