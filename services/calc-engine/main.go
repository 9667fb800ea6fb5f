// calc-engine replays recorded analyses through the engine and reports any
// metric that drifted from the recorded value.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/logging"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/parity"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
)

func main() {
	dir := flag.String("fixtures", "testdata", "Directory of *.json / *.hjson parity cases")
	tolerance := flag.Float64("tolerance", parity.DefaultTolerance, "Absolute tolerance per value")
	workers := flag.Int("workers", 4, "Cases verified concurrently")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logging.Setup(*level, logging.FormatConsole)

	paths, err := fixturePaths(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("Failed to list fixtures")
	}
	if len(paths) == 0 {
		log.Fatal().Str("dir", *dir).Msg("No parity fixtures found")
	}

	results, err := run(context.Background(), paths, *tolerance, *workers)
	if err != nil {
		log.Fatal().Err(err).Msg("Parity run failed")
	}

	out, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(out))

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
			log.Warn().Str("case", r.Name).Int("gaps", len(r.Gaps)).Strs("warnings", r.Warnings).Msg("Parity mismatch")
		}
	}
	log.Info().Int("cases", len(results)).Int("failed", failed).Msg("Parity run complete")
	if failed > 0 {
		os.Exit(1)
	}
}

func fixturePaths(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.json", "*.hjson"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths, nil
}

// run verifies every case. Results are in path order; the first load,
// validation or engine error cancels the rest.
func run(ctx context.Context, paths []string, tolerance float64, workers int) ([]parity.VerificationResult, error) {
	val := validate.New()
	results := make([]parity.VerificationResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := parity.LoadCase(path)
			if err != nil {
				return err
			}
			if err := val.DealInput(c.Input); err != nil {
				return fmt.Errorf("case %s: %w", c.Name, err)
			}
			res, err := parity.Verify(c, tolerance)
			if err != nil {
				return err
			}
			log.Debug().Str("case", c.Name).Int("checked", res.Checked).Bool("passed", res.Passed).Msg("Verified")
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
