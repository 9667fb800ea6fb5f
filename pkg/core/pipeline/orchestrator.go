// Package pipeline imports a portfolio of deal requests: each one is
// validated, analyzed and stored as a snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/store"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/utils"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
)

// Item is one named deal request.
type Item struct {
	Name  string
	Input deal.Input
}

// Source supplies the items to import.
// Implementations may read:
// - a directory of deal files (DirSource)
// - a client export already held in memory (SliceSource)
type Source interface {
	Items(ctx context.Context) ([]Item, error)
}

// Config defines thresholds and behavior for a run.
type Config struct {
	SessionID string // snapshots are stored under this session
	Workers   int    // items analyzed concurrently (default 4)
	Strict    bool   // if true, an invalid item stops the run
	Force     bool   // re-analyze items that already have a snapshot
	MinScore  int    // deals scoring below this are flagged
}

// ItemResult is the outcome for one item.
type ItemResult struct {
	Name       string `json:"name"`
	Strategy   string `json:"strategy,omitempty"`
	Score      int    `json:"score"`
	Grade      string `json:"grade,omitempty"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	BelowMin   bool   `json:"below_min,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Summary totals a run.
type Summary struct {
	Analyzed int          `json:"analyzed"`
	Skipped  int          `json:"skipped"`
	Invalid  int          `json:"invalid"`
	Flagged  int          `json:"flagged"`
	Results  []ItemResult `json:"results"`
}

// Orchestrator manages the end-to-end flow: Source -> Validate -> Analyze -> Store
type Orchestrator struct {
	source   Source
	repo     store.Repository
	validate *validate.Validator
	config   Config
}

// NewOrchestrator creates an orchestrator. repo may be nil for a dry run.
func NewOrchestrator(source Source, repo store.Repository, cfg Config) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.SessionID == "" {
		cfg.SessionID = "import"
	}
	return &Orchestrator{
		source:   source,
		repo:     repo,
		validate: validate.New(),
		config:   cfg,
	}
}

// SetRepository allows injecting a custom repository (e.g., for testing).
func (o *Orchestrator) SetRepository(repo store.Repository) {
	o.repo = repo
}

// Run imports every item. Per-item failures are recorded in the summary;
// the returned error is reserved for source, storage and strict-mode
// validation failures.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	items, err := o.source.Items(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load items: %w", err)
	}
	log.Info().Int("items", len(items)).Str("session", o.config.SessionID).Msg("Import starting")

	results := make([]ItemResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Workers)
	for i, item := range items {
		g.Go(func() error {
			res, err := o.process(ctx, item)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Results: results}
	for _, r := range results {
		switch {
		case r.Skipped:
			sum.Skipped++
		case r.Error != "":
			sum.Invalid++
		default:
			sum.Analyzed++
			if r.BelowMin {
				sum.Flagged++
			}
		}
	}
	log.Info().
		Int("analyzed", sum.Analyzed).
		Int("skipped", sum.Skipped).
		Int("invalid", sum.Invalid).
		Int("flagged", sum.Flagged).
		Dur("elapsed", time.Since(start)).
		Msg("Import complete")
	return sum, nil
}

func (o *Orchestrator) process(ctx context.Context, item Item) (ItemResult, error) {
	res := ItemResult{Name: item.Name}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	id := store.StableID(o.config.SessionID, item.Name)

	// 0. Skip items imported by an earlier run
	if o.repo != nil && !o.config.Force {
		existing, err := o.repo.Get(ctx, id)
		if err == nil {
			log.Debug().Str("item", item.Name).Msg("Already imported")
			res.Skipped = true
			res.SnapshotID = existing.ID
			res.Strategy, res.Score, res.Grade = existing.Strategy, existing.Score, existing.Grade
			return res, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return res, fmt.Errorf("failed to check %s: %w", item.Name, err)
		}
	}

	// 1. Validation
	if err := o.validate.DealInput(item.Input); err != nil {
		res.Error = err.Error()
		if o.config.Strict {
			return res, fmt.Errorf("%s: %w", item.Name, err)
		}
		log.Warn().Str("item", item.Name).Err(err).Msg("Skipping invalid deal")
		return res, nil
	}

	// 2. Analysis
	report, err := deal.Analyze(item.Input)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	res.Strategy = string(report.Strategy)
	res.Score = report.Headline.Score
	res.Grade = string(report.Headline.Grade)
	if report.Headline.Score < o.config.MinScore {
		res.BelowMin = true
		log.Warn().Str("item", item.Name).Int("score", res.Score).Int("min", o.config.MinScore).Msg("Deal below minimum score")
	}

	// 3. Storage
	if o.repo == nil {
		return res, nil
	}
	snap, err := store.NewSnapshot(o.config.SessionID, item.Input, report)
	if err != nil {
		return res, err
	}
	snap.ID = id
	if err := o.repo.Save(ctx, snap); err != nil {
		return res, fmt.Errorf("storage failed for %s: %w", item.Name, err)
	}
	res.SnapshotID = id
	return res, nil
}

// =============================================================================
// SOURCES
// =============================================================================

// SliceSource serves a fixed list.
type SliceSource []Item

func (s SliceSource) Items(context.Context) ([]Item, error) {
	return s, nil
}

// DirSource reads every *.json and *.hjson file in Dir. Each file is one
// deal.Input; the item name is the file name without extension. Assumption
// fields a file omits keep Defaults.
type DirSource struct {
	Dir      string
	Defaults assumption.Set
}

func (d DirSource) Items(ctx context.Context) ([]Item, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".json" && ext != ".hjson") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(d.Dir, e.Name()))
		if err != nil {
			return nil, err
		}
		in := deal.Input{Assumptions: d.Defaults}
		if _, err := utils.SmartParse(data, &in); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		items = append(items, Item{Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), Input: in})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
