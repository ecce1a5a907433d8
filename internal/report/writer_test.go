package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "analysis_results.json")
	batch := sampleBatch()

	if err := WriteJSON(path, batch); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	var loaded Batch
	if err := json.Unmarshal(raw, &loaded); err != nil {
		t.Fatalf("unmarshal results: %v", err)
	}

	if loaded.RunID != batch.RunID {
		t.Fatalf("run id = %q; want %q", loaded.RunID, batch.RunID)
	}
	if len(loaded.Games) != 2 {
		t.Fatalf("games = %d; want 2", len(loaded.Games))
	}
	rep, ok := loaded.Games["game_1"]
	if !ok {
		t.Fatal("game_1 missing from serialized batch")
	}
	if len(rep.Executed) != 1 || rep.Executed[0].PinningSquare != "e1" {
		t.Fatalf("game_1 executed = %+v; want the stored pin", rep.Executed)
	}
}

func TestBatchTotals(t *testing.T) {
	batch := sampleBatch()
	e, m, a := batch.Totals()
	if e != 1 || m != 0 || a != 0 {
		t.Fatalf("totals = %d/%d/%d; want 1/0/0", e, m, a)
	}
	if batch.FinishedAt.Before(batch.StartedAt) {
		t.Fatal("finished before started")
	}
}

func TestTacticRecordWireShape(t *testing.T) {
	batch := sampleBatch()
	raw, err := json.Marshal(batch.Games["game_1"].Executed[0])
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}

	for _, key := range []string{"type", "pinned_piece", "pinned_square", "pinning_piece", "pinning_square", "target", "move_number", "color"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("field %q missing from %s", key, raw)
		}
	}
	// Skewer-only fields stay out of pin records.
	for _, key := range []string{"attacking_piece", "front_target", "back_square"} {
		if _, ok := fields[key]; ok {
			t.Fatalf("field %q must be omitted from pin records", key)
		}
	}
	if fields["type"] != "pin" || fields["target"] != "king" {
		t.Fatalf("record = %s; want type=pin target=king", raw)
	}
}
