package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileRepo keeps one JSON file per snapshot under a directory. It is the
// fallback when no database is configured.
type FileRepo struct {
	dir string
	mu  sync.RWMutex
}

// NewFileRepo creates dir if needed.
func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

// Save writes s, replacing any snapshot with the same ID.
func (r *FileRepo) Save(_ context.Context, s *Snapshot) error {
	if s.ID == "" || strings.ContainsAny(s.ID, `/\`) {
		return fmt.Errorf("invalid snapshot id %q", s.ID)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	tmp := r.path(s.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path(s.ID)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (r *FileRepo) Get(_ context.Context, id string) (*Snapshot, error) {
	if strings.ContainsAny(id, `/\`) {
		return nil, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.load(r.path(id))
}

func (r *FileRepo) load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// ListBySession scans the directory; fine for the volumes the fallback sees.
func (r *FileRepo) ListBySession(_ context.Context, sessionID string, limit int) ([]Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var out []Snapshot
	for _, p := range paths {
		s, err := r.load(p)
		if err != nil {
			return nil, err
		}
		if s.SessionID == sessionID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *FileRepo) Close() error { return nil }
