package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/momentum/internal/chart"
	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/momentumstore/h5"
	"github.com/tensorplex-labs/momentum/internal/utils/logger"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

// Renders one match straight from the datasets, without the server.
// `go run ./cmd/render -match 1234 -sigma 8 -out chart.png`
func main() {
	matchID := flag.Int64("match", 0, "match id to render")
	sigma := flag.Int("sigma", 0, "smoothing level, default from SIGMA_DEFAULT")
	out := flag.String("out", chart.DisplayFilename, "output png path")
	hires := flag.Bool("hires", false, "render at export resolution")
	logger.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}
	if *matchID == 0 {
		log.Fatal().Msg("-match is required")
	}
	if *sigma == 0 {
		*sigma = cfg.SigmaDefault
	}

	v := viewer.New(cfg.DataEnvConfig, cfg.ChartEnvConfig, viewer.WithStoreOpener(h5.OpenReader))
	if err := v.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to load datasets")
	}
	defer v.Close()

	md, err := v.LoadMatch(*matchID, *sigma)
	if err != nil {
		log.Fatal().Err(err).Int64("match_id", *matchID).Msg("failed to load match")
	}

	renderer, err := chart.NewRendererFromConfig(cfg.DataEnvConfig, cfg.ChartEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init chart renderer")
	}

	dpi := cfg.DisplayDPI
	if *hires {
		dpi = cfg.ExportDPI
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("failed to create output file")
	}
	defer f.Close()

	if err := renderer.Render(f, md, dpi); err != nil {
		log.Fatal().Err(err).Msg("failed to render chart")
	}

	log.Info().
		Str("title", md.Title()).
		Int("sigma", md.Sigma).
		Int("dpi", dpi).
		Str("path", *out).
		Msg("chart rendered")
}
