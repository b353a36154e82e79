package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tensorplex-labs/momentum/internal/chartcache"
	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/matchtable"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

// Dashboard is the dataset side of the server, implemented by *viewer.Viewer.
type Dashboard interface {
	Resolve(sel viewer.Selection) (*viewer.Resolved, error)
	Leagues() ([]string, bool, error)
	Teams(league string) ([]string, error)
	Matches(league, team string) ([]matchtable.MatchOption, error)
	LoadMatch(matchID int64, sigma int) (*viewer.MatchData, error)
	ValidateSigma(sigma int) error
	SigmaBounds() (minSigma, maxSigma, defSigma int)
	Version() uint64
	Stats() (viewer.Stats, error)
}

// Renderer is implemented by *chart.Renderer.
type Renderer interface {
	RenderPNG(md *viewer.MatchData, dpi int) ([]byte, error)
}

type Server struct {
	App      *fiber.App
	config   config.ServerEnvConfig
	chart    config.ChartEnvConfig
	viewer   Dashboard
	renderer Renderer
	cache    *chartcache.Cache
}

// StdResponse represents the standardized response structure
type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
}

type LeaguesResponse struct {
	Leagues   []string `json:"leagues"`
	HasLeague bool     `json:"has_league"`
}

type HealthResponse struct {
	Status string       `json:"status"`
	Stats  viewer.Stats `json:"stats"`
}

const (
	chartContentType = "image/png"
	downloadHeader   = `attachment; filename="match_momentum.png"`
)
