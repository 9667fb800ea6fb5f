package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/phuslu/log"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/config"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/logging"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/pipeline"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file")
	dir := flag.String("dir", "deals", "Directory of deal request files")
	sessionID := flag.String("session", "import", "Session the snapshots are stored under")
	workers := flag.Int("workers", 4, "Deals analyzed concurrently")
	strict := flag.Bool("strict", false, "Stop on the first invalid deal")
	force := flag.Bool("force", false, "Re-analyze deals that were already imported")
	minScore := flag.Int("min-score", 0, "Flag deals scoring below this")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	defaults, err := assumption.LoadDefaults()
	if cfg.Assumptions.Path != "" {
		defaults, err = assumption.LoadFile(cfg.Assumptions.Path)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load assumptions")
	}

	ctx := context.Background()
	repo, err := store.Open(ctx, store.Options{
		DatabaseURL: cfg.Database.URL,
		SQLitePath:  cfg.Database.SQLitePath,
		FileDir:     cfg.Database.SnapshotDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	if repo == nil {
		log.Warn().Msg("No snapshot store configured; running without persistence")
	} else {
		defer repo.Close()
	}

	o := pipeline.NewOrchestrator(pipeline.DirSource{Dir: *dir, Defaults: defaults}, repo, pipeline.Config{
		SessionID: *sessionID,
		Workers:   *workers,
		Strict:    *strict,
		Force:     *force,
		MinScore:  *minScore,
	})
	sum, err := o.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Import failed")
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(sum, "", "  ")
	fmt.Println(string(out))
}
