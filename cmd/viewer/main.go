package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/momentum/internal/chart"
	"github.com/tensorplex-labs/momentum/internal/chartcache"
	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/momentumstore/h5"
	"github.com/tensorplex-labs/momentum/internal/server"
	"github.com/tensorplex-labs/momentum/internal/utils/logger"
	"github.com/tensorplex-labs/momentum/internal/viewer"
	"github.com/tensorplex-labs/momentum/internal/watcher"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting momentum viewer...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := viewer.New(cfg.DataEnvConfig, cfg.ChartEnvConfig, viewer.WithStoreOpener(h5.OpenReader))
	if err := v.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load datasets")
	}
	defer v.Close()

	renderer, err := chart.NewRendererFromConfig(cfg.DataEnvConfig, cfg.ChartEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init chart renderer")
	}

	cache, err := chartcache.NewFromConfig(ctx, cfg.CacheEnvConfig, cfg.RedisEnvConfig)
	if err != nil {
		log.Error().Err(err).Msg("failed to init redis chart cache, continuing with in-memory cache")
		cache = chartcache.New(chartcache.NewMemory(cfg.CacheMaxEntries), cfg.CacheTTL)
	}
	defer cache.Close()

	if cfg.Watch {
		reload := config.NewReloadConfig(cfg.Environment)
		w, err := watcher.New(v, reload.Debounce, cfg.MatchesPath, cfg.MomentumPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init dataset watcher")
		}
		if err := w.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start dataset watcher")
		}
		defer w.Stop()
	}

	s := server.NewServer(cfg.ServerEnvConfig, cfg.ChartEnvConfig, v, renderer, cache)

	// setup signal handling for graceful shutdown before starting the server
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping viewer")
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
		cancel()
	}()

	if err := s.Start(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}

	cancel()
	log.Info().Msg("viewer stopped")
}
