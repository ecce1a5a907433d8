package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/jspark-dev/tacticscan/internal/analysis"
)

// WriteGameDiagrams renders one PNG per executed tactic of a game into
// dir. Positions are replayed from the game record, so the diagram
// shows the board right after the tactical move.
func WriteGameDiagrams(ctx context.Context, r BoardRenderer, game *nchess.Game, rep analysis.GameReport, dir string) error {
	if r == nil || game == nil || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	positions := game.Positions()
	for i, rec := range rep.Executed {
		ply := plyIndex(rec)
		if ply < 0 || ply+1 >= len(positions) {
			continue
		}
		board := positions[ply+1].Board()

		opts, ok := diagramOptions(board, rec)
		if !ok {
			continue
		}
		png, err := r.RenderPNG(ctx, board, opts)
		if err != nil {
			return fmt.Errorf("render diagram: %w", err)
		}

		name := fmt.Sprintf("%s_move%d_%s_%s_%d.png", rep.Key, rec.MoveNumber, rec.Color, rec.Kind, i+1)
		if err := os.WriteFile(filepath.Join(dir, name), png, 0o644); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}
	}
	return nil
}

// plyIndex maps a record's move number and color back to its ply.
func plyIndex(rec analysis.TacticRecord) int {
	if rec.MoveNumber < 1 {
		return -1
	}
	idx := (rec.MoveNumber - 1) * 2
	if strings.EqualFold(rec.Color, "black") {
		idx++
	}
	return idx
}

func diagramOptions(board *nchess.Board, rec analysis.TacticRecord) (Options, bool) {
	switch rec.Kind {
	case analysis.TacticPin:
		pinned, ok1 := parseSquare(rec.PinnedSquare)
		pinning, ok2 := parseSquare(rec.PinningSquare)
		if !ok1 || !ok2 {
			return Options{}, false
		}
		opts := Options{
			Highlights: []SquareHighlight{
				{Square: pinning, Role: RoleAttacker},
				{Square: pinned, Role: RoleVictim},
			},
			Arrow: &Arrow{From: pinning, To: pinned},
		}
		if king, ok := kingSquareOf(board, pinned); ok {
			opts.Highlights = append(opts.Highlights, SquareHighlight{Square: king, Role: RoleTarget})
		}
		return opts, true
	case analysis.TacticSkewer:
		attacker, ok1 := parseSquare(rec.AttackingSquare)
		front, ok2 := parseSquare(rec.FrontSquare)
		back, ok3 := parseSquare(rec.BackSquare)
		if !ok1 || !ok2 || !ok3 {
			return Options{}, false
		}
		return Options{
			Highlights: []SquareHighlight{
				{Square: attacker, Role: RoleAttacker},
				{Square: front, Role: RoleVictim},
				{Square: back, Role: RoleTarget},
			},
			Arrow: &Arrow{From: attacker, To: front},
		}, true
	default:
		return Options{}, false
	}
}

func parseSquare(s string) (nchess.Square, bool) {
	if len(s) != 2 {
		return 0, false
	}
	file := s[0] - 'a'
	rank := s[1] - '1'
	if file > 7 || rank > 7 {
		return 0, false
	}
	return nchess.NewSquare(nchess.File(file), nchess.Rank(rank)), true
}

// kingSquareOf finds the king on the same side as the piece standing
// on ref.
func kingSquareOf(board *nchess.Board, ref nchess.Square) (nchess.Square, bool) {
	piece := board.Piece(ref)
	if piece == nchess.NoPiece {
		return 0, false
	}
	for sq, p := range board.SquareMap() {
		if p.Type() == nchess.King && p.Color() == piece.Color() {
			return sq, true
		}
	}
	return 0, false
}
