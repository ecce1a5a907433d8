package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/jspark-dev/tacticscan/internal/analysis"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	url := fmt.Sprintf("redis://%s/0", mr.Addr())
	s, err := NewStore(url, time.Hour)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBatch() *Batch {
	reports := []analysis.GameReport{
		{
			ID:    "id-1",
			Key:   "game_1",
			White: "Anna",
			Black: "Ben",
			GameResult: analysis.GameResult{
				Executed: []analysis.TacticRecord{{
					Kind:          analysis.TacticPin,
					PinnedPiece:   "knight",
					PinnedSquare:  "e4",
					PinningPiece:  "rook",
					PinningSquare: "e1",
					Target:        "king",
					MoveNumber:    2,
					Color:         "white",
				}},
			},
		},
		{ID: "id-2", Key: "game_2", White: "Cara", Black: "Dan"},
	}
	return NewBatch(reports, time.Now().Add(-time.Minute))
}

func TestStoreSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	batch := sampleBatch()

	if err := s.SaveBatch(ctx, batch); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	keys, err := s.GameKeys(ctx, batch.RunID)
	if err != nil {
		t.Fatalf("GameKeys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v; want 2 entries", keys)
	}

	rep, err := s.LoadReport(ctx, batch.RunID, "game_1")
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if rep == nil {
		t.Fatal("LoadReport returned nil for a stored report")
	}
	if rep.Key != "game_1" || rep.White != "Anna" {
		t.Fatalf("report = %+v; want game_1 by Anna", rep)
	}
	if e, _, _ := rep.Counts(); e != 1 {
		t.Fatalf("executed = %d; want 1", e)
	}
	if rep.Executed[0].PinnedSquare != "e4" {
		t.Fatalf("pinned square = %q; want e4", rep.Executed[0].PinnedSquare)
	}
}

func TestStoreLoadMissingReport(t *testing.T) {
	s := newTestStore(t)

	rep, err := s.LoadReport(context.Background(), "no-such-run", "game_1")
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if rep != nil {
		t.Fatalf("report = %+v; want nil for a missing key", rep)
	}
}

func TestNewStoreRequiresURL(t *testing.T) {
	if _, err := NewStore("   ", time.Hour); err == nil {
		t.Fatal("empty redis url must be rejected")
	}
}
