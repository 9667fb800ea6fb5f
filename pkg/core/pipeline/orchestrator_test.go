package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/store"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/strategy"
)

// --- Mocks ---

type failingRepo struct{}

func (failingRepo) Save(context.Context, *store.Snapshot) error { return errors.New("disk full") }
func (failingRepo) Get(context.Context, string) (*store.Snapshot, error) {
	return nil, store.ErrNotFound
}
func (failingRepo) ListBySession(context.Context, string, int) ([]store.Snapshot, error) {
	return nil, nil
}
func (failingRepo) Close() error { return nil }

// --- Fixtures ---

func defaults(t *testing.T) assumption.Set {
	t.Helper()
	set, err := assumption.LoadDefaults()
	require.NoError(t, err)
	set.Operating.MonthlyRent = 2500
	return set
}

func portfolio(t *testing.T) SliceSource {
	set := defaults(t)
	return SliceSource{
		{Name: "12-elm", Input: deal.Input{Strategy: strategy.LongTermRental, Prices: strategy.Prices{List: 300000}, Assumptions: set}},
		{Name: "40-oak", Input: deal.Input{Strategy: strategy.FixAndFlip, Prices: strategy.Prices{List: 180000}, Assumptions: set}},
		{Name: "no-price", Input: deal.Input{Strategy: strategy.LongTermRental, Assumptions: set}},
	}
}

// --- Tests ---

func TestOrchestrator_Run(t *testing.T) {
	repo, err := store.NewFileRepo(t.TempDir())
	require.NoError(t, err)
	o := NewOrchestrator(portfolio(t), repo, Config{SessionID: "p1", Workers: 2})

	sum, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Analyzed)
	assert.Equal(t, 1, sum.Invalid)
	assert.Equal(t, 0, sum.Skipped)
	require.Len(t, sum.Results, 3)

	assert.Equal(t, "12-elm", sum.Results[0].Name)
	assert.Equal(t, "ltr", sum.Results[0].Strategy)
	assert.Equal(t, store.StableID("p1", "12-elm"), sum.Results[0].SnapshotID)
	assert.NotEmpty(t, sum.Results[2].Error)
	assert.Empty(t, sum.Results[2].SnapshotID)

	snaps, err := repo.ListBySession(context.Background(), "p1", 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestOrchestrator_SkipsImported(t *testing.T) {
	repo, err := store.NewFileRepo(t.TempDir())
	require.NoError(t, err)
	src := portfolio(t)

	first, err := NewOrchestrator(src, repo, Config{SessionID: "p1"}).Run(context.Background())
	require.NoError(t, err)

	second, err := NewOrchestrator(src, repo, Config{SessionID: "p1"}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 0, second.Analyzed)
	assert.Equal(t, first.Results[0].Score, second.Results[0].Score)

	forced, err := NewOrchestrator(src, repo, Config{SessionID: "p1", Force: true}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, forced.Analyzed)

	snaps, err := repo.ListBySession(context.Background(), "p1", 0)
	require.NoError(t, err)
	assert.Len(t, snaps, 2, "re-imports overwrite rather than duplicate")
}

func TestOrchestrator_Strict(t *testing.T) {
	o := NewOrchestrator(portfolio(t), nil, Config{Strict: true, Workers: 1})
	_, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-price")
}

func TestOrchestrator_MinScore(t *testing.T) {
	o := NewOrchestrator(portfolio(t), nil, Config{MinScore: 101})
	sum, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Flagged)
	for _, r := range sum.Results[:2] {
		assert.True(t, r.BelowMin)
		assert.Empty(t, r.SnapshotID)
	}
}

func TestOrchestrator_StorageError(t *testing.T) {
	o := NewOrchestrator(portfolio(t), nil, Config{})
	o.SetRepository(failingRepo{})
	_, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("b-house.json", `{"strategy":"ltr","prices":{"list":250000}}`)
	write("a-house.json", `{"strategy":"wholesale","prices":{"list":120000},"assumptions":{"wholesale":{"assignment_fee":15000}}}`)
	write("notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	items, err := DirSource{Dir: dir, Defaults: defaults(t)}.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a-house", items[0].Name)
	assert.Equal(t, 15000.0, items[0].Input.Assumptions.Wholesale.AssignmentFee)
	// defaults survive where the file is silent
	assert.Equal(t, 1500.0, items[0].Input.Assumptions.Wholesale.MarketingCosts)
	assert.Equal(t, 2500.0, items[1].Input.Assumptions.Operating.MonthlyRent)
}

func TestDirSource_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"prices": [1, 2]}`), 0o644))
	_, err := DirSource{Dir: dir}.Items(context.Background())
	assert.Error(t, err)
}
