package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/momentum/internal/chartcache"
	"github.com/tensorplex-labs/momentum/internal/matchtable"
	"github.com/tensorplex-labs/momentum/internal/templates"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

func (s *Server) handlePage(c *fiber.Ctx) error {
	// the slider only submits integers; anything else takes the default
	sigma, _ := parseSigma(c.Query("sigma"))

	res, err := s.viewer.Resolve(viewer.Selection{
		League: c.Query("league"),
		Team:   c.Query("team"),
		Match:  c.Query("match"),
		Sigma:  sigma,
	})
	if err != nil && !errors.Is(err, viewer.ErrNoMatches) {
		return err
	}

	data := pageData(res)
	if errors.Is(err, viewer.ErrNoMatches) {
		data.Error = viewer.NoMatchesMessage
	} else if c.Query("show") != "" {
		data.Show = true
		md, loadErr := s.viewer.LoadMatch(res.MatchID, res.Sigma)
		if loadErr != nil {
			log.Warn().Err(loadErr).Int64("match_id", res.MatchID).Msg("Failed to load match")
			data.ChartError = loadErr.Error()
		} else {
			data.Heading = md.Title()
			data.ChartURL = chartURL(res.MatchID, res.Sigma, false)
			data.DownloadURL = chartURL(res.MatchID, res.Sigma, true)
		}
	}

	c.Type("html", "utf-8")
	return templates.Page(data).Render(c.UserContext(), c.Response().BodyWriter())
}

func pageData(res *viewer.Resolved) templates.PageData {
	data := templates.PageData{
		HasLeague: res.HasLeague,
		Leagues:   stringOptions(res.Leagues, res.League),
		Teams:     stringOptions(res.Teams, res.Team),
		Sigma:     res.Sigma,
		SigmaMin:  res.SigmaMin,
		SigmaMax:  res.SigmaMax,
		Notice:    res.Notice,
	}
	data.Matches = make([]templates.Option, len(res.Options))
	for i, o := range res.Options {
		data.Matches[i] = templates.Option{Value: o.Label, Label: o.Label, Selected: o.Label == res.MatchLabel}
	}
	return data
}

func stringOptions(values []string, selected string) []templates.Option {
	opts := make([]templates.Option, len(values))
	for i, v := range values {
		opts[i] = templates.Option{Value: v, Label: v, Selected: v == selected}
	}
	return opts
}

func (s *Server) handleChart(c *fiber.Ctx) error {
	matchID, err := parseMatchID(c.Params("file"))
	if err != nil {
		return errorJSON(c, err)
	}

	sigma, err := parseSigma(c.Query("sigma"))
	if err != nil {
		return errorJSON(c, err)
	}
	if sigma == 0 {
		sigma = s.chart.SigmaDefault
	}
	if err := s.viewer.ValidateSigma(sigma); err != nil {
		return errorJSON(c, err)
	}

	download := c.QueryBool("download")
	dpi := s.chart.DisplayDPI
	if download {
		dpi = s.chart.ExportDPI
	}

	key := chartcache.Key(s.viewer.Version(), matchID, sigma, dpi)
	png, hit, err := s.cache.GetOrRender(c.UserContext(), key, func() ([]byte, error) {
		md, err := s.viewer.LoadMatch(matchID, sigma)
		if err != nil {
			return nil, err
		}
		return s.renderer.RenderPNG(md, dpi)
	})
	if err != nil {
		log.Error().Err(err).Int64("match_id", matchID).Int("sigma", sigma).Msg("Failed to render chart")
		return errorJSON(c, err)
	}

	if hit {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	if download {
		c.Set(fiber.HeaderContentDisposition, downloadHeader)
	}
	c.Set(fiber.HeaderContentType, chartContentType)
	return c.Send(png)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	stats, err := s.viewer.Stats()
	if err != nil {
		return c.Status(statusFor(err)).JSON(createResponse(HealthResponse{Status: "unavailable"}, err))
	}
	return c.JSON(createResponse(HealthResponse{Status: "ok", Stats: stats}, nil))
}

func (s *Server) handleLeagues(c *fiber.Ctx) error {
	leagues, hasLeague, err := s.viewer.Leagues()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(createResponse(LeaguesResponse{Leagues: leagues, HasLeague: hasLeague}, nil))
}

func (s *Server) handleTeams(c *fiber.Ctx) error {
	teams, err := s.viewer.Teams(c.Query("league"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(createResponse(teams, nil))
}

func (s *Server) handleMatches(c *fiber.Ctx) error {
	team := c.Query("team")
	if team == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(createResponse([]matchtable.MatchOption{}, errors.New("team is required")))
	}
	matches, err := s.viewer.Matches(c.Query("league"), team)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(createResponse(matches, nil))
}

func (s *Server) handleMomentum(c *fiber.Ctx) error {
	matchID, err := strconv.ParseInt(c.Params("matchId"), 10, 64)
	if err != nil {
		return errorJSON(c, errors.Wrapf(viewer.ErrUnknownMatch, "match id %q", c.Params("matchId")))
	}

	sigma, err := parseSigma(c.Query("sigma"))
	if err != nil {
		return errorJSON(c, err)
	}
	if sigma == 0 {
		sigma = s.chart.SigmaDefault
	}

	md, err := s.viewer.LoadMatch(matchID, sigma)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(createResponse(md, nil))
}
