package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/store"
)

// timeLayout has fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
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
CREATE TABLE IF NOT EXISTS cycles (
	run_id TEXT NOT NULL,
	number INTEGER NOT NULL,
	chosen_action TEXT,
	outcome TEXT NOT NULL,
	believes TEXT NOT NULL,
	desires TEXT NOT NULL,
	intentions TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	PRIMARY KEY(run_id, number)
);

CREATE INDEX IF NOT EXISTS idx_cycles_run ON cycles(run_id, number DESC);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveCycle inserts or replaces a cycle snapshot
func (s *sqliteStore) SaveCycle(ctx context.Context, c store.Cycle) error {
	if c.RunID == "" {
		return internalerr.ErrInvalidInput
	}

	believes, err := encodeKB(c.Believes)
	if err != nil {
		return err
	}
	desires, err := encodeKB(c.Desires)
	if err != nil {
		return err
	}
	intentions, err := encodeKB(c.Intentions)
	if err != nil {
		return err
	}

	const stmt = `
INSERT INTO cycles (run_id, number, chosen_action, outcome, believes, desires, intentions, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, number) DO UPDATE SET
	chosen_action=excluded.chosen_action,
	outcome=excluded.outcome,
	believes=excluded.believes,
	desires=excluded.desires,
	intentions=excluded.intentions,
	recorded_at=excluded.recorded_at;
`
	_, err = s.db.ExecContext(ctx, stmt,
		c.RunID,
		c.Number,
		c.Action,
		c.Outcome,
		believes,
		desires,
		intentions,
		c.At.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save cycle %s/%d: %w", c.RunID, c.Number, err)
	}
	return nil
}

const selectCycle = `SELECT run_id, number, chosen_action, outcome, believes, desires, intentions, recorded_at FROM cycles`

// LatestCycle returns the highest-numbered snapshot of a run
func (s *sqliteStore) LatestCycle(ctx context.Context, runID string) (store.Cycle, bool, error) {
	row := s.db.QueryRowContext(ctx, selectCycle+` WHERE run_id = ? ORDER BY number DESC LIMIT 1`, runID)
	c, err := scanCycle(row)
	if err == sql.ErrNoRows {
		return store.Cycle{}, false, nil
	}
	if err != nil {
		return store.Cycle{}, false, err
	}
	return c, true, nil
}

// ListCycles returns a run's snapshots in cycle order
func (s *sqliteStore) ListCycles(ctx context.Context, runID string, limit int) ([]store.Cycle, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}
	rows, err := s.db.QueryContext(ctx, selectCycle+` WHERE run_id = ? ORDER BY number ASC LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListRuns returns every run, oldest first
func (s *sqliteStore) ListRuns(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, COUNT(*), MAX(recorded_at)
FROM cycles
GROUP BY run_id
ORDER BY run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var (
			r      store.Run
			lastAt string
		)
		if err := rows.Scan(&r.ID, &r.Cycles, &lastAt); err != nil {
			return nil, err
		}
		if r.LastAt, err = time.Parse(timeLayout, lastAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(sc scanner) (store.Cycle, error) {
	var (
		c                             store.Cycle
		action                        sql.NullString
		believes, desires, intentions string
		at                            string
	)
	if err := sc.Scan(&c.RunID, &c.Number, &action, &c.Outcome, &believes, &desires, &intentions, &at); err != nil {
		return store.Cycle{}, err
	}
	c.Action = action.String

	var err error
	if c.Believes, err = decodeKB(believes); err != nil {
		return store.Cycle{}, err
	}
	if c.Desires, err = decodeKB(desires); err != nil {
		return store.Cycle{}, err
	}
	if c.Intentions, err = decodeKB(intentions); err != nil {
		return store.Cycle{}, err
	}
	if c.At, err = time.Parse(timeLayout, at); err != nil {
		return store.Cycle{}, err
	}
	return c, nil
}

func encodeKB(sentences []string) (string, error) {
	if sentences == nil {
		sentences = []string{}
	}
	data, err := json.Marshal(sentences)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeKB(data string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("decode kb column: %w", err)
	}
	return out, nil
}
