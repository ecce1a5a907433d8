package pgnsrc

import (
	"os"
	"path/filepath"
	"testing"
)

const samplePGN = `[Event "Test Match"]
[Site "?"]
[White "Anna"]
[Black "Ben"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0

[Event "Test Match"]
[Site "?"]
[White "Cara"]
[Black "Dan"]
[Result "1/2-1/2"]

1. d4 d5 2. c4 e6 1/2-1/2
`

func TestParseString(t *testing.T) {
	games, err := ParseString(samplePGN, 0)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("games = %d; want 2", len(games))
	}

	if games[0].Key != "game_1" || games[1].Key != "game_2" {
		t.Fatalf("keys = %s, %s; want game_1, game_2", games[0].Key, games[1].Key)
	}
	if games[0].White != "Anna" || games[0].Black != "Ben" {
		t.Fatalf("game_1 players = %s vs %s; want Anna vs Ben", games[0].White, games[0].Black)
	}
	if got := len(games[0].Game.Moves()); got != 6 {
		t.Fatalf("game_1 plies = %d; want 6", got)
	}
	if got := len(games[1].Game.Moves()); got != 4 {
		t.Fatalf("game_2 plies = %d; want 4", got)
	}
}

func TestParseStringLimit(t *testing.T) {
	games, err := ParseString(samplePGN, 1)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("games = %d; want the limit of 1", len(games))
	}
	if games[0].White != "Anna" {
		t.Fatalf("white = %s; want the first game", games[0].White)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.pgn")
	if err := os.WriteFile(path, []byte(samplePGN), 0o644); err != nil {
		t.Fatalf("write pgn: %v", err)
	}

	games, err := ReadFile(path, 5)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("games = %d; want 2", len(games))
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.pgn"), 0); err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestMissingTagsDefaulted(t *testing.T) {
	games, err := ParseString("[Event \"Casual\"]\n\n1. e4 e5 1-0\n", 0)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("games = %d; want 1", len(games))
	}
	if games[0].White != "Unknown" || games[0].Black != "Unknown" {
		t.Fatalf("players = %s vs %s; want Unknown vs Unknown", games[0].White, games[0].Black)
	}
}
