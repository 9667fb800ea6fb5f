package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed-width so created_at sorts lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepo stores snapshots in a local SQLite file. Used by the CLI and by
// single-node deployments without Postgres.
type SQLiteRepo struct {
	db *sql.DB
}

// OpenSQLite opens path in WAL mode and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	repo := &SQLiteRepo{db: db}
	if err := repo.EnsureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

func (r *SQLiteRepo) EnsureSchema() error {
	const createTable = `
CREATE TABLE IF NOT EXISTS deal_snapshots (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  strategy TEXT NOT NULL,
  score INTEGER NOT NULL,
  grade TEXT NOT NULL,
  input_json TEXT NOT NULL,
  report_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := r.db.Exec(createTable); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_deal_snapshots_session ON deal_snapshots(session_id, created_at);`); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// Save upserts s by ID.
func (r *SQLiteRepo) Save(ctx context.Context, s *Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO deal_snapshots (id, session_id, strategy, score, grade, input_json, report_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  score = excluded.score,
  grade = excluded.grade,
  input_json = excluded.input_json,
  report_json = excluded.report_json
`,
		s.ID, s.SessionID, s.Strategy, s.Score, s.Grade,
		string(s.Input), string(s.Report), s.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, session_id, strategy, score, grade, input_json, report_json, created_at
FROM deal_snapshots WHERE id = ?`, id)
	s, err := scanSQLite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, strategy, score, grade, input_json, report_json, created_at
FROM deal_snapshots WHERE session_id = ?
ORDER BY created_at DESC
LIMIT ?`, sessionID, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		s, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row sqlScanner) (*Snapshot, error) {
	var s Snapshot
	var input, report, created string
	if err := row.Scan(&s.ID, &s.SessionID, &s.Strategy, &s.Score, &s.Grade, &input, &report, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	s.Input, s.Report, s.CreatedAt = []byte(input), []byte(report), t
	return &s, nil
}
