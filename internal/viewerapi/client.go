// Package viewerapi is a client for the dashboard's JSON API and chart routes.
package viewerapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/matchtable"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

type ViewerAPIInterface interface {
	Leagues(ctx context.Context) (LeaguesResponse, error)
	Teams(ctx context.Context, league string) ([]string, error)
	Matches(ctx context.Context, league, team string) ([]matchtable.MatchOption, error)
	Momentum(ctx context.Context, matchID int64, sigma int) (*viewer.MatchData, error)
	Chart(ctx context.Context, matchID int64, sigma int, download bool) ([]byte, error)
	Health(ctx context.Context) (HealthResponse, error)
}

type Client struct {
	cfg    *config.ClientEnvConfig
	client *resty.Client
}

func NewClient(cfg *config.ClientEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	retry := retryablehttp.NewClient()
	retry.RetryMax = cfg.RetryMax
	retry.RetryWaitMin = cfg.RetryWaitMin
	retry.RetryWaitMax = cfg.RetryWaitMax
	retry.HTTPClient.Timeout = cfg.ClientTimeout
	retry.Logger = nil
	// surface the last reply after retries so its error envelope can be read
	retry.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := resty.NewWithClient(retry.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.ViewerURL, "/")).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	if cfg.AcceptZstd {
		client.SetHeader("Accept-Encoding", "zstd")
	}

	log.Debug().
		Str("base_url", cfg.ViewerURL).
		Int("retry_max", retry.RetryMax).
		Bool("zstd", cfg.AcceptZstd).
		Msg("viewer api client initialized")

	return &Client{cfg: cfg, client: client}, nil
}

// fetch returns the decoded body of a 2xx response. The body is read raw so
// zstd responses can be unwrapped before parsing.
func fetch(ctx context.Context, client *resty.Client, path string, query map[string]string) ([]byte, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetDoNotParseResponse(true).
		Get(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("get request failed")
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	body, err := decodeBody(resp.Header().Get("Content-Encoding"), raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("path", path).Msg("get non-2xx")
		var env StdResponse[map[string]any]
		if sonic.Unmarshal(body, &env) == nil && env.Error != nil {
			return nil, &StatusError{Code: resp.StatusCode(), Message: *env.Error}
		}
		return nil, &StatusError{Code: resp.StatusCode(), Message: string(body)}
	}
	return body, nil
}

func decodeBody(encoding string, r io.Reader) ([]byte, error) {
	if !strings.EqualFold(encoding, "zstd") {
		return io.ReadAll(r)
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func getJSON[T any](ctx context.Context, client *resty.Client, path string, query map[string]string) (T, error) {
	var zero T
	body, err := fetch(ctx, client, path, query)
	if err != nil {
		return zero, err
	}

	var result StdResponse[T]
	if err := sonic.Unmarshal(body, &result); err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	if result.Error != nil {
		log.Error().Str("error", *result.Error).Str("path", path).Msg("response contains error")
		return zero, fmt.Errorf("response error: %s", *result.Error)
	}
	return result.Body, nil
}

func (c *Client) Leagues(ctx context.Context) (LeaguesResponse, error) {
	return getJSON[LeaguesResponse](ctx, c.client, "/api/leagues", nil)
}

func (c *Client) Teams(ctx context.Context, league string) ([]string, error) {
	return getJSON[[]string](ctx, c.client, "/api/teams", map[string]string{"league": league})
}

func (c *Client) Matches(ctx context.Context, league, team string) ([]matchtable.MatchOption, error) {
	return getJSON[[]matchtable.MatchOption](ctx, c.client, "/api/matches", map[string]string{
		"league": league,
		"team":   team,
	})
}

func (c *Client) Momentum(ctx context.Context, matchID int64, sigma int) (*viewer.MatchData, error) {
	md, err := getJSON[viewer.MatchData](ctx, c.client, "/api/momentum/"+strconv.FormatInt(matchID, 10), sigmaQuery(sigma))
	if err != nil {
		return nil, err
	}
	return &md, nil
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	return getJSON[HealthResponse](ctx, c.client, "/health", nil)
}

// Chart downloads a rendered chart. download selects the export resolution.
func (c *Client) Chart(ctx context.Context, matchID int64, sigma int, download bool) ([]byte, error) {
	query := sigmaQuery(sigma)
	if download {
		query["download"] = "1"
	}
	png, err := fetch(ctx, c.client, "/chart/"+strconv.FormatInt(matchID, 10)+".png", query)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(png, pngMagic) {
		return nil, fmt.Errorf("chart %d: response is not a png", matchID)
	}
	return png, nil
}

func sigmaQuery(sigma int) map[string]string {
	q := map[string]string{}
	if sigma > 0 {
		q["sigma"] = strconv.Itoa(sigma)
	}
	return q
}
