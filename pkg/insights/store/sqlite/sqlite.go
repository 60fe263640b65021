package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	period TEXT NOT NULL,
	input TEXT,
	generated_at TEXT NOT NULL,
	records INTEGER NOT NULL DEFAULT 0,
	undated INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS keyword_counts (
	run_id TEXT NOT NULL,
	scope TEXT NOT NULL,
	span TEXT NOT NULL,
	keyword TEXT NOT NULL,
	count INTEGER NOT NULL,
	commented INTEGER NOT NULL,
	PRIMARY KEY(run_id, scope, span, keyword),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_keyword_counts_keyword ON keyword_counts(keyword, scope);

CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	run_id TEXT,
	title TEXT,
	bullets TEXT,
	period TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or updates a run
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run without id", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, period, input, generated_at, records, undated)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	period=excluded.period,
	input=excluded.input,
	generated_at=excluded.generated_at,
	records=excluded.records,
	undated=excluded.undated;
`, r.ID, r.Period, r.Input, r.GeneratedAt.UTC().Format(time.RFC3339Nano), r.Records, r.Undated)
	return err
}

// GetRun returns a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, period, input, generated_at, records, undated
FROM runs WHERE id = ?;
`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// ListRuns returns the most recent runs first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, period, input, generated_at, records, undated
FROM runs
ORDER BY generated_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r     store.Run
		input sql.NullString
		gen   string
	)
	if err := sc.Scan(&r.ID, &r.Period, &input, &gen, &r.Records, &r.Undated); err != nil {
		return store.Run{}, err
	}
	r.Input = input.String
	t, err := time.Parse(time.RFC3339Nano, gen)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s: bad timestamp %q: %w", r.ID, gen, err)
	}
	r.GeneratedAt = t
	return r, nil
}

// SaveCounts replaces the keyword counts of a run
func (s *sqliteStore) SaveCounts(ctx context.Context, runID string, counts []store.Count) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM keyword_counts WHERE run_id = ?`, runID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO keyword_counts (run_id, scope, span, keyword, count, commented)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, scope, span, keyword) DO UPDATE SET
	count=excluded.count,
	commented=excluded.commented;
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range counts {
		if _, err := stmt.ExecContext(ctx, runID, c.Scope, c.Window, c.Keyword, c.Count, c.Commented); err != nil {
			return fmt.Errorf("save count %s/%s/%s: %w", c.Scope, c.Window, c.Keyword, err)
		}
	}
	return tx.Commit()
}

// KeywordHistory returns every stored count of keyword in scope, oldest
// window first.
func (s *sqliteStore) KeywordHistory(ctx context.Context, keyword, scope string) ([]store.HistoryPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT k.run_id, r.period, k.span, k.count, k.commented, r.generated_at
FROM keyword_counts k
JOIN runs r ON r.id = k.run_id
WHERE k.keyword = ? AND k.scope = ?
ORDER BY k.span ASC, r.generated_at ASC;
`, keyword, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []store.HistoryPoint
	for rows.Next() {
		var (
			p   store.HistoryPoint
			gen string
		)
		if err := rows.Scan(&p.RunID, &p.Period, &p.Window, &p.Count, &p.Commented, &gen); err != nil {
			return nil, err
		}
		if p.GeneratedAt, err = time.Parse(time.RFC3339Nano, gen); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// UpsertCard inserts or updates a card
func (s *sqliteStore) UpsertCard(ctx context.Context, c store.Card) error {
	bulletsJSON, err := json.Marshal(c.Bullets)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO cards (id, run_id, title, bullets, period)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	run_id=excluded.run_id,
	title=excluded.title,
	bullets=excluded.bullets,
	period=excluded.period;
`, c.ID, c.RunID, c.Title, string(bulletsJSON), c.Period)
	return err
}

// GetCardsByPeriod retrieves cards for a given report period
func (s *sqliteStore) GetCardsByPeriod(ctx context.Context, period string, k int) ([]store.Card, error) {
	if k <= 0 {
		k = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, run_id, title, bullets, period
FROM cards
WHERE period = ?
ORDER BY id ASC
LIMIT ?;
`, period, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []store.Card
	for rows.Next() {
		var c store.Card
		var runID sql.NullString
		var bulletsJSON string
		if err := rows.Scan(&c.ID, &runID, &c.Title, &bulletsJSON, &c.Period); err != nil {
			return nil, err
		}
		c.RunID = runID.String
		if err := json.Unmarshal([]byte(bulletsJSON), &c.Bullets); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
