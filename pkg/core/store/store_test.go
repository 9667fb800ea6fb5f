package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/strategy"
)

func testSnapshot(t *testing.T, session string, created time.Time) *Snapshot {
	t.Helper()
	in := deal.Input{Strategy: strategy.LongTermRental, Prices: strategy.Prices{List: 300000}}
	report := deal.Report{
		Strategy:  strategy.LongTermRental,
		BasePrice: 300000,
		Headline:  strategy.Headline{Strategy: strategy.LongTermRental, Score: 72, Grade: strategy.GradeB},
	}
	s, err := NewSnapshot(session, in, report)
	require.NoError(t, err)
	s.CreatedAt = created
	return s
}

func TestNewSnapshot(t *testing.T) {
	s := testSnapshot(t, "sess-1", time.Now())
	assert.Len(t, s.ID, 36)
	assert.Equal(t, "ltr", s.Strategy)
	assert.Equal(t, 72, s.Score)
	assert.Equal(t, "B", s.Grade)

	in, err := s.DecodeInput()
	require.NoError(t, err)
	assert.Equal(t, 300000.0, in.Prices.List)

	var report map[string]any
	require.NoError(t, json.Unmarshal(s.Report, &report))
	assert.Equal(t, 300000.0, report["base_price"])
}

func TestStableID(t *testing.T) {
	a := StableID("sess", "12 Elm St")
	assert.Equal(t, a, StableID("sess", "12 Elm St"))
	assert.NotEqual(t, a, StableID("other", "12 Elm St"))
	assert.NotEqual(t, a, StableID("sess", "14 Elm St"))
	assert.Len(t, a, 36)
}

func TestOpen_NothingConfigured(t *testing.T) {
	repo, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	assert.Nil(t, repo)
}

// runRepositoryContract exercises the behavior every backend shares.
func runRepositoryContract(t *testing.T, repo Repository) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	older := testSnapshot(t, "sess-a", base)
	newer := testSnapshot(t, "sess-a", base.Add(time.Hour))
	other := testSnapshot(t, "sess-b", base)
	for _, s := range []*Snapshot{older, newer, other} {
		require.NoError(t, repo.Save(ctx, s))
	}

	got, err := repo.Get(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.SessionID, got.SessionID)
	assert.Equal(t, newer.Score, got.Score)
	assert.True(t, newer.CreatedAt.Equal(got.CreatedAt))
	assert.JSONEq(t, string(newer.Input), string(got.Input))

	_, err = repo.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.ListBySession(ctx, "sess-a", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	list, err = repo.ListBySession(ctx, "sess-a", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Save upserts.
	newer.Score = 90
	newer.Grade = "A"
	require.NoError(t, repo.Save(ctx, newer))
	got, err = repo.Get(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, got.Score)
	assert.Equal(t, "A", got.Grade)

	require.NoError(t, repo.Close())
}

func TestSQLiteRepo(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "deals.db"))
	require.NoError(t, err)
	runRepositoryContract(t, repo)
}

func TestFileRepo(t *testing.T) {
	repo, err := NewFileRepo(filepath.Join(t.TempDir(), "snapshots"))
	require.NoError(t, err)
	runRepositoryContract(t, repo)
}

func TestFileRepo_RejectsPathIDs(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	s := testSnapshot(t, "x", time.Now())
	s.ID = "../escape"
	assert.Error(t, repo.Save(context.Background(), s))

	_, err = repo.Get(context.Background(), "../escape")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepo_FailedSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	s := testSnapshot(t, "x", time.Now())
	// A directory in the way makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, s.ID+".json"), 0o755))

	assert.Error(t, repo.Save(context.Background(), s))
	_, err = os.Stat(filepath.Join(dir, s.ID+".json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestPGRepo_GetMalformedID(t *testing.T) {
	repo := NewPGRepo(nil)
	_, err := repo.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_SelectsSQLite(t *testing.T) {
	repo, err := Open(context.Background(), Options{SQLitePath: filepath.Join(t.TempDir(), "x.db"), FileDir: t.TempDir()})
	require.NoError(t, err)
	defer repo.Close()
	_, ok := repo.(*SQLiteRepo)
	assert.True(t, ok)
}
