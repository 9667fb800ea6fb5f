package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS deal_snapshots (
	id          UUID PRIMARY KEY,
	session_id  TEXT NOT NULL,
	strategy    TEXT NOT NULL,
	score       INTEGER NOT NULL,
	grade       TEXT NOT NULL,
	input_json  JSONB NOT NULL,
	report_json JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deal_snapshots_session ON deal_snapshots (session_id, created_at DESC);
`

// PGRepo stores snapshots in Postgres as JSONB.
type PGRepo struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool to dbURL and ensures the schema exists.
func OpenPostgres(ctx context.Context, dbURL string) (*PGRepo, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL not set")
	}
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	repo := NewPGRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// NewPGRepo wraps an existing pool.
func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

func (r *PGRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save upserts s by ID.
func (r *PGRepo) Save(ctx context.Context, s *Snapshot) error {
	query := `
		INSERT INTO deal_snapshots (id, session_id, strategy, score, grade, input_json, report_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			score = EXCLUDED.score,
			grade = EXCLUDED.grade,
			input_json = EXCLUDED.input_json,
			report_json = EXCLUDED.report_json;
	`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.SessionID, s.Strategy, s.Score, s.Grade, []byte(s.Input), []byte(s.Report), s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Get loads a snapshot by ID. IDs that are not UUIDs cannot exist in the
// table and report ErrNotFound.
func (r *PGRepo) Get(ctx context.Context, id string) (*Snapshot, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	query := `
		SELECT id::text, session_id, strategy, score, grade, input_json, report_json, created_at
		FROM deal_snapshots WHERE id = $1
	`
	s, err := scanSnapshot(r.pool.QueryRow(ctx, query, parsed.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return s, nil
}

func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Snapshot, error) {
	query := `
		SELECT id::text, session_id, strategy, score, grade, input_json, report_json, created_at
		FROM deal_snapshots WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, sessionID, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PGRepo) Close() error {
	r.pool.Close()
	return nil
}

func scanSnapshot(row pgx.Row) (*Snapshot, error) {
	var s Snapshot
	var input, report []byte
	if err := row.Scan(&s.ID, &s.SessionID, &s.Strategy, &s.Score, &s.Grade, &input, &report, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Input, s.Report = input, report
	return &s, nil
}

const defaultListLimit = 20

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
