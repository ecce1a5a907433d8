package tactics

import (
	"fmt"

	nchess "github.com/corentings/chess/v2"
)

// Snapshot is a read-only view of a single position. Apply never
// mutates the receiver; hypothetical moves always produce a fresh
// snapshot, so callers can keep evaluating against the original.
type Snapshot struct {
	pos *nchess.Position
}

func NewSnapshot(pos *nchess.Position) *Snapshot {
	return &Snapshot{pos: pos}
}

// Position exposes the underlying position for collaborators that need
// the full rules engine (notation, rendering). Treat it as read-only.
func (s *Snapshot) Position() *nchess.Position { return s.pos }

func (s *Snapshot) FEN() string { return s.pos.String() }

func (s *Snapshot) PieceAt(sq nchess.Square) nchess.Piece {
	return s.pos.Board().Piece(sq)
}

func (s *Snapshot) SideToMove() nchess.Color { return s.pos.Turn() }

// KingSquare locates the king of the given color. The second return
// value is false only on malformed positions without that king.
func (s *Snapshot) KingSquare(c nchess.Color) (nchess.Square, bool) {
	for sq := nchess.A1; sq <= nchess.H8; sq++ {
		pc := s.pos.Board().Piece(sq)
		if pc != nchess.NoPiece && pc.Type() == nchess.King && pc.Color() == c {
			return sq, true
		}
	}
	return nchess.A1, false
}

// IsLegal reports whether mv is playable in this position.
func (s *Snapshot) IsLegal(mv *nchess.Move) bool {
	if mv == nil {
		return false
	}
	for _, valid := range s.pos.ValidMoves() {
		if valid.S1() == mv.S1() && valid.S2() == mv.S2() && valid.Promo() == mv.Promo() {
			return true
		}
	}
	return false
}

// Apply plays mv and returns the resulting snapshot. The receiver is
// left untouched.
func (s *Snapshot) Apply(mv *nchess.Move) (*Snapshot, error) {
	if !s.IsLegal(mv) {
		return nil, fmt.Errorf("apply %v: %w", mv, ErrIllegalMove)
	}
	next := s.pos.Update(mv)
	if next == nil {
		return nil, fmt.Errorf("apply %v: %w", mv, ErrIllegalMove)
	}
	return &Snapshot{pos: next}, nil
}

// IsTerminal reports whether the game is over in this position.
func (s *Snapshot) IsTerminal() bool {
	if s.pos.Status() != nchess.NoMethod {
		return true
	}
	return len(s.pos.ValidMoves()) == 0
}
