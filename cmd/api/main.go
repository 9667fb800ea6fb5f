package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	dealapi "github.com/humblehuman369/dealscope-sub001/pkg/api/deal"
	"github.com/humblehuman369/dealscope-sub001/pkg/api/session"
	valuationapi "github.com/humblehuman369/dealscope-sub001/pkg/api/valuation"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/assumption"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/config"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/logging"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("DEALSCOPE_CONFIG"), "Path to a YAML or TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	defaults, err := loadDefaults(cfg.Assumptions.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Assumptions.Path).Msg("Failed to load assumptions")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := store.Open(ctx, store.Options{
		DatabaseURL: cfg.Database.URL,
		SQLitePath:  cfg.Database.SQLitePath,
		FileDir:     cfg.Database.SnapshotDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	if repo == nil {
		log.Warn().Msg("No snapshot store configured; analyses will not be persisted")
	} else {
		defer repo.Close()
	}

	mux := http.NewServeMux()
	dealapi.NewHandler(dealapi.Options{
		Defaults:     defaults,
		Repo:         repo,
		Gate:         session.NewGate(),
		MaxBatch:     cfg.Server.MaxBatch,
		BatchWorkers: cfg.Server.BatchWorkers,
	}).Register(mux)
	valuationapi.NewHandler().Register(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("API server starting")
	log.Info().Msg("  - POST /api/deal/analyze")
	log.Info().Msg("  - POST /api/deal/compare")
	log.Info().Msg("  - POST /api/deal/batch")
	log.Info().Msg("  - GET  /api/deal/snapshots, /api/deal/snapshot")
	log.Info().Msg("  - GET  /api/assumptions/defaults")
	log.Info().Msg("  - POST /api/valuation/appraise, /api/valuation/project, /api/valuation/amortize")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
	log.Info().Msg("Server stopped")
}

func loadDefaults(path string) (assumption.Set, error) {
	if path == "" {
		return assumption.LoadDefaults()
	}
	return assumption.LoadFile(path)
}
