// Package store persists analysis snapshots for callers. The engine never
// touches storage; handlers and the CLI save what they computed.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
)

// ErrNotFound is returned when no snapshot has the requested ID.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one stored analysis: the request and the report it produced.
type Snapshot struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Strategy  string          `json:"strategy"`
	Score     int             `json:"score"`
	Grade     string          `json:"grade"`
	Input     json.RawMessage `json:"input"`
	Report    json.RawMessage `json:"report"`
	CreatedAt time.Time       `json:"created_at"`
}

// Repository stores and retrieves snapshots.
type Repository interface {
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Snapshot, error)
	Close() error
}

// NewSnapshot serializes an analysis into a snapshot with a fresh ID.
func NewSnapshot(sessionID string, in deal.Input, report deal.Report) (*Snapshot, error) {
	inputJSON, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Strategy:  string(report.Strategy),
		Score:     report.Headline.Score,
		Grade:     string(report.Headline.Grade),
		Input:     inputJSON,
		Report:    reportJSON,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// StableID derives a snapshot ID from a session and a caller-chosen name, so
// re-importing the same named deal overwrites its snapshot.
func StableID(sessionID, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("dealscope:"+sessionID+"/"+name)).String()
}

// DecodeInput restores the request stored in s.
func (s *Snapshot) DecodeInput() (deal.Input, error) {
	var in deal.Input
	if err := json.Unmarshal(s.Input, &in); err != nil {
		return deal.Input{}, fmt.Errorf("failed to unmarshal snapshot input: %w", err)
	}
	return in, nil
}

// Options selects a backend for Open.
type Options struct {
	DatabaseURL string
	SQLitePath  string
	FileDir     string
}

// Open picks Postgres when a URL is set, then SQLite, then the file store.
// With nothing configured it returns a nil Repository and no error.
func Open(ctx context.Context, opts Options) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch {
	case opts.DatabaseURL != "":
		repo, err = OpenPostgres(ctx, opts.DatabaseURL)
	case opts.SQLitePath != "":
		repo, err = OpenSQLite(opts.SQLitePath)
	case opts.FileDir != "":
		repo, err = NewFileRepo(opts.FileDir)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}
