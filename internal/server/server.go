// Package server serves the momentum dashboard page, the rendered charts and
// a small JSON API over the same datasets.
package server

import (
	"context"
	"errors"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/momentum/internal/chartcache"
	"github.com/tensorplex-labs/momentum/internal/config"
)

// NewServer creates the dashboard server and registers its routes.
func NewServer(serverCfg config.ServerEnvConfig, chartCfg config.ChartEnvConfig, dash Dashboard, renderer Renderer, cache *chartcache.Cache) *Server {
	log.Info().
		Any("serverConfig", serverCfg).
		Msg("Server configuration loaded")

	app := fiber.New(fiber.Config{
		Prefork:               false,
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrHandler,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		BodyLimit:             serverCfg.BodySizeLimit,
	})

	app.Use(recover.New())
	// PNGs are already compressed and /api negotiates zstd itself.
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/chart")
		},
	}))

	s := &Server{
		App:      app,
		config:   serverCfg,
		chart:    chartCfg,
		viewer:   dash,
		renderer: renderer,
		cache:    cache,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.App.Get("/", s.handlePage)
	s.App.Get("/chart/:file", s.handleChart)
	s.App.Get("/health", s.handleHealth)

	api := s.App.Group("/api", ZstdMiddleware([]string{}))
	api.Get("/leagues", s.handleLeagues)
	api.Get("/teams", s.handleTeams)
	api.Get("/matches", s.handleMatches)
	api.Get("/momentum/:matchId", s.handleMomentum)
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	code := statusFor(err)

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(createResponse(map[string]any{}, err))
}

// Start blocks serving on the configured address.
func (s *Server) Start() error {
	addr := s.config.Address()
	log.Info().Str("address", addr).Msg("Dashboard listening")
	return s.App.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
