package tactics

import (
	"errors"

	nchess "github.com/corentings/chess/v2"
)

// ErrIllegalMove is returned when a caller supplies a move that is not
// legal for the snapshot it is applied to.
var ErrIllegalMove = errors.New("illegal move for position")

var pieceValues = map[nchess.PieceType]int{
	nchess.Pawn:   1,
	nchess.Knight: 3,
	nchess.Bishop: 3,
	nchess.Rook:   5,
	nchess.Queen:  9,
	nchess.King:   100,
}

// PieceValue returns the material weight used to order skewer targets.
func PieceValue(t nchess.PieceType) int {
	return pieceValues[t]
}

// Pin is a piece of the side to move that cannot leave the line between
// an enemy slider and its own king.
type Pin struct {
	PinnedKind    nchess.PieceType
	PinnedSquare  nchess.Square
	PinningKind   nchess.PieceType
	PinningSquare nchess.Square
}

// Skewer is a sliding attack through a cheaper enemy piece onto a more
// valuable one standing behind it on the same ray.
type Skewer struct {
	AttackerKind   nchess.PieceType
	AttackerSquare nchess.Square
	FrontKind      nchess.PieceType
	FrontSquare    nchess.Square
	BackKind       nchess.PieceType
	BackSquare     nchess.Square
}
