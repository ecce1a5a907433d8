package pgnsrc

import (
	"fmt"
	"io"
	"os"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Game is one parsed game together with the header metadata the
// analyzer carries into reports.
type Game struct {
	Key   string
	White string
	Black string
	Game  *nchess.Game
}

// ReadFile parses up to limit games from a PGN file. limit <= 0 reads
// the whole stream.
func ReadFile(path string, limit int) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pgn: %w", err)
	}
	defer f.Close()
	return Read(f, limit)
}

// Read parses games from a PGN stream in order. A malformed record
// stops the scan; everything parsed before it is still returned along
// with the error, so callers can analyze the valid prefix.
func Read(r io.Reader, limit int) ([]Game, error) {
	scanner := nchess.NewScanner(r)

	var games []Game
	for scanner.HasNext() {
		if limit > 0 && len(games) >= limit {
			break
		}
		parsed, err := scanner.ParseNext()
		if err != nil {
			return games, fmt.Errorf("parse game %d: %w", len(games)+1, err)
		}
		if parsed == nil || len(parsed.Moves()) == 0 {
			continue
		}
		games = append(games, Game{
			Key:   fmt.Sprintf("game_%d", len(games)+1),
			White: tagOrDefault(parsed, "White"),
			Black: tagOrDefault(parsed, "Black"),
			Game:  parsed,
		})
	}
	return games, nil
}

// ParseString parses games embedded in a PGN string, e.g. one message
// from a live relay.
func ParseString(pgn string, limit int) ([]Game, error) {
	return Read(strings.NewReader(pgn), limit)
}

func tagOrDefault(g *nchess.Game, key string) string {
	if v := strings.TrimSpace(g.GetTagPair(key)); v != "" {
		return v
	}
	return "Unknown"
}
