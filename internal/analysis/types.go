package analysis

import (
	nchess "github.com/corentings/chess/v2"

	"github.com/jspark-dev/tacticscan/internal/tactics"
)

type TacticKind string

const (
	TacticPin    TacticKind = "pin"
	TacticSkewer TacticKind = "skewer"
)

// TacticRecord is one detected motif tagged with the ply it belongs
// to. Records are write-once: built here, then only serialized.
type TacticRecord struct {
	Kind TacticKind `json:"type"`

	PinnedPiece   string `json:"pinned_piece,omitempty"`
	PinnedSquare  string `json:"pinned_square,omitempty"`
	PinningPiece  string `json:"pinning_piece,omitempty"`
	PinningSquare string `json:"pinning_square,omitempty"`
	Target        string `json:"target,omitempty"`

	AttackingPiece  string `json:"attacking_piece,omitempty"`
	AttackingSquare string `json:"attacking_square,omitempty"`
	FrontTarget     string `json:"front_target,omitempty"`
	FrontSquare     string `json:"front_square,omitempty"`
	BackTarget      string `json:"back_target,omitempty"`
	BackSquare      string `json:"back_square,omitempty"`

	MoveNumber int    `json:"move_number"`
	Color      string `json:"color"`
}

// PositionResult classifies the motifs around one played move.
type PositionResult struct {
	Executed []TacticRecord `json:"executed"`
	Missed   []TacticRecord `json:"missed"`
	Allowed  []TacticRecord `json:"allowed"`
}

// GameResult concatenates the per-ply classifications of a whole game.
type GameResult struct {
	Executed []TacticRecord `json:"executed"`
	Missed   []TacticRecord `json:"missed"`
	Allowed  []TacticRecord `json:"allowed"`
}

func (g *GameResult) append(r PositionResult) {
	g.Executed = append(g.Executed, r.Executed...)
	g.Missed = append(g.Missed, r.Missed...)
	g.Allowed = append(g.Allowed, r.Allowed...)
}

// Counts returns the sizes of the three categories.
func (g GameResult) Counts() (executed, missed, allowed int) {
	return len(g.Executed), len(g.Missed), len(g.Allowed)
}

var kindNames = map[nchess.PieceType]string{
	nchess.Pawn:   "pawn",
	nchess.Knight: "knight",
	nchess.Bishop: "bishop",
	nchess.Rook:   "rook",
	nchess.Queen:  "queen",
	nchess.King:   "king",
}

func kindName(t nchess.PieceType) string { return kindNames[t] }

func colorName(c nchess.Color) string {
	if c == nchess.White {
		return "white"
	}
	return "black"
}

func recordPin(p tactics.Pin) TacticRecord {
	return TacticRecord{
		Kind:          TacticPin,
		PinnedPiece:   kindName(p.PinnedKind),
		PinnedSquare:  p.PinnedSquare.String(),
		PinningPiece:  kindName(p.PinningKind),
		PinningSquare: p.PinningSquare.String(),
		Target:        "king",
	}
}

func recordSkewer(s tactics.Skewer) TacticRecord {
	return TacticRecord{
		Kind:            TacticSkewer,
		AttackingPiece:  kindName(s.AttackerKind),
		AttackingSquare: s.AttackerSquare.String(),
		FrontTarget:     kindName(s.FrontKind),
		FrontSquare:     s.FrontSquare.String(),
		BackTarget:      kindName(s.BackKind),
		BackSquare:      s.BackSquare.String(),
	}
}

func records(pins []tactics.Pin, skewers []tactics.Skewer) []TacticRecord {
	if len(pins) == 0 && len(skewers) == 0 {
		return nil
	}
	out := make([]TacticRecord, 0, len(pins)+len(skewers))
	for _, p := range pins {
		out = append(out, recordPin(p))
	}
	for _, s := range skewers {
		out = append(out, recordSkewer(s))
	}
	return out
}
