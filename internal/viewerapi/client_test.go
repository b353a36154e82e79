package viewerapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/matchtable"
	"github.com/tensorplex-labs/momentum/internal/viewer"
)

func testConfig(url string) *config.ClientEnvConfig {
	return &config.ClientEnvConfig{
		ViewerURL:     url,
		ClientTimeout: 5 * time.Second,
		RetryMax:      0,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  time.Millisecond,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	raw, err := sonic.Marshal(v)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func TestNewClient_NilConfig(t *testing.T) {
	_, err := NewClient(nil)
	assert.Error(t, err)
}

func TestClient_Matches(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/matches" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "Serie A", r.URL.Query().Get("league"))
		assert.Equal(t, "Inter", r.URL.Query().Get("team"))
		writeJSON(t, w, http.StatusOK, StdResponse[[]matchtable.MatchOption]{
			Body: []matchtable.MatchOption{{Label: "Inter vs Napoli", MatchID: 10}},
		})
	}))
	defer ts.Close()

	c, err := NewClient(testConfig(ts.URL))
	require.NoError(t, err)

	got, err := c.Matches(context.Background(), "Serie A", "Inter")
	require.NoError(t, err)
	assert.Equal(t, []matchtable.MatchOption{{Label: "Inter vs Napoli", MatchID: 10}}, got)
}

func TestClient_MomentumZstd(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/momentum/10", r.URL.Path)
		assert.Equal(t, "8", r.URL.Query().Get("sigma"))
		assert.Equal(t, "zstd", r.Header.Get("Accept-Encoding"))

		raw, err := sonic.Marshal(StdResponse[viewer.MatchData]{
			Body: viewer.MatchData{MatchID: 10, Home: "Inter", Away: "Napoli", Sigma: 8, DiffSmooth: []float64{0.1, 0.2}},
		})
		require.NoError(t, err)
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		defer enc.Close()

		w.Header().Set("Content-Encoding", "zstd")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(enc.EncodeAll(raw, nil))
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.AcceptZstd = true
	c, err := NewClient(cfg)
	require.NoError(t, err)

	md, err := c.Momentum(context.Background(), 10, 8)
	require.NoError(t, err)
	assert.Equal(t, "Inter", md.Home)
	assert.Equal(t, []float64{0.1, 0.2}, md.DiffSmooth)
}

func TestClient_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msg := "invalid smoothing sigma"
		writeJSON(t, w, http.StatusBadRequest, StdResponse[map[string]any]{Body: map[string]any{}, Error: &msg})
	}))
	defer ts.Close()

	c, err := NewClient(testConfig(ts.URL))
	require.NoError(t, err)

	_, err = c.Momentum(context.Background(), 10, 99)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "invalid smoothing sigma", se.Message)
}

func TestClient_Chart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chart/10.png", r.URL.Path)
		if r.URL.Query().Get("download") == "1" {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(append([]byte{}, pngMagic...))
			return
		}
		_, _ = w.Write([]byte("not an image"))
	}))
	defer ts.Close()

	c, err := NewClient(testConfig(ts.URL))
	require.NoError(t, err)

	png, err := c.Chart(context.Background(), 10, 6, true)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, png)

	_, err = c.Chart(context.Background(), 10, 6, false)
	assert.Error(t, err)
}

func TestClient_Health(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, StdResponse[HealthResponse]{
			Body: HealthResponse{Status: "ok", Stats: viewer.Stats{Version: 2, TableRows: 40}},
		})
	}))
	defer ts.Close()

	c, err := NewClient(testConfig(ts.URL))
	require.NoError(t, err)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.EqualValues(t, 2, h.Stats.Version)
}
