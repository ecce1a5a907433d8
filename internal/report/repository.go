package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Repository persists per-game tactic summaries to postgres so runs
// can be compared across time.
type Repository struct {
	db *sql.DB
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS game_tactic_summaries (
    run_id      TEXT        NOT NULL,
    game_key    TEXT        NOT NULL,
    white       TEXT        NOT NULL,
    black       TEXT        NOT NULL,
    executed    INTEGER     NOT NULL DEFAULT 0,
    missed      INTEGER     NOT NULL DEFAULT 0,
    allowed     INTEGER     NOT NULL DEFAULT 0,
    analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (run_id, game_key)
)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveBatch upserts one summary row per game of the run.
func (r *Repository) SaveBatch(ctx context.Context, batch *Batch) error {
	if batch == nil {
		return nil
	}
	const stmt = `
INSERT INTO game_tactic_summaries
    (run_id, game_key, white, black, executed, missed, allowed, analyzed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (run_id, game_key) DO UPDATE SET
    white = EXCLUDED.white,
    black = EXCLUDED.black,
    executed = EXCLUDED.executed,
    missed = EXCLUDED.missed,
    allowed = EXCLUDED.allowed,
    analyzed_at = EXCLUDED.analyzed_at`

	for key, rep := range batch.Games {
		e, m, a := rep.Counts()
		_, err := r.db.ExecContext(ctx, stmt,
			batch.RunID, key, rep.White, rep.Black, e, m, a, batch.FinishedAt)
		if err != nil {
			return fmt.Errorf("upsert summary %s: %w", key, err)
		}
	}
	return nil
}

// RunSummary is one persisted per-game row.
type RunSummary struct {
	GameKey    string
	White      string
	Black      string
	Executed   int
	Missed     int
	Allowed    int
	AnalyzedAt time.Time
}

// LoadRun returns all summary rows of a run ordered by game key.
func (r *Repository) LoadRun(ctx context.Context, runID string) ([]RunSummary, error) {
	const q = `
SELECT game_key, white, black, executed, missed, allowed, analyzed_at
FROM game_tactic_summaries
WHERE run_id = $1
ORDER BY game_key`

	rows, err := r.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.GameKey, &s.White, &s.Black,
			&s.Executed, &s.Missed, &s.Allowed, &s.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
