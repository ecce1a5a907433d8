package tactics

import (
	nchess "github.com/corentings/chess/v2"
)

// Direction is a unit step on the board, each component in {-1,0,1}.
type Direction struct {
	File int
	Rank int
}

var (
	orthogonalDirections = []Direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonalDirections   = []Direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func (d Direction) IsZero() bool { return d.File == 0 && d.Rank == 0 }

func (d Direction) IsOrthogonal() bool {
	return !d.IsZero() && (d.File == 0 || d.Rank == 0)
}

func (d Direction) IsDiagonal() bool {
	return d.File != 0 && d.Rank != 0
}

func (d Direction) Opposite() Direction {
	return Direction{File: -d.File, Rank: -d.Rank}
}

// DirectionBetween returns the normalized step from a toward b when the
// two squares share a rank, file or diagonal. The second return value
// is false when they are not colinear or identical.
func DirectionBetween(a, b nchess.Square) (Direction, bool) {
	df := int(b.File()) - int(a.File())
	dr := int(b.Rank()) - int(a.Rank())
	if df == 0 && dr == 0 {
		return Direction{}, false
	}
	if df != 0 && dr != 0 && abs(df) != abs(dr) {
		return Direction{}, false
	}
	return Direction{File: sign(df), Rank: sign(dr)}, true
}

// Step moves one square from sq in direction d. The second return value
// is false once the step would leave the board.
func Step(sq nchess.Square, d Direction) (nchess.Square, bool) {
	f := int(sq.File()) + d.File
	r := int(sq.Rank()) + d.Rank
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return sq, false
	}
	return nchess.NewSquare(nchess.File(f), nchess.Rank(r)), true
}

// slideDirections returns the rays a piece kind can travel, in a fixed
// order so detector output is reproducible.
func slideDirections(t nchess.PieceType) []Direction {
	switch t {
	case nchess.Rook:
		return orthogonalDirections
	case nchess.Bishop:
		return diagonalDirections
	case nchess.Queen:
		dirs := make([]Direction, 0, 8)
		dirs = append(dirs, orthogonalDirections...)
		dirs = append(dirs, diagonalDirections...)
		return dirs
	default:
		return nil
	}
}

// slidesAlong reports whether a piece kind attacks along direction d.
func slidesAlong(t nchess.PieceType, d Direction) bool {
	switch t {
	case nchess.Queen:
		return !d.IsZero()
	case nchess.Rook:
		return d.IsOrthogonal()
	case nchess.Bishop:
		return d.IsDiagonal()
	default:
		return false
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
