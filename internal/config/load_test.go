package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "df_matches.parquet", cfg.MatchesPath)
	assert.Equal(t, "momentum_data.h5", cfg.MomentumPath)
	assert.Equal(t, 3, cfg.SigmaMin)
	assert.Equal(t, 15, cfg.SigmaMax)
	assert.Equal(t, 6, cfg.SigmaDefault)
	assert.Equal(t, 150, cfg.DisplayDPI)
	assert.Equal(t, 300, cfg.ExportDPI)
	assert.Equal(t, "0.0.0.0:8501", cfg.Address())
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MATCHES_PATH", "/data/matches.parquet")
	t.Setenv("SIGMA_DEFAULT", "9")
	t.Setenv("VIEWER_PORT", "9000")
	t.Setenv("DATA_WATCH", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/data/matches.parquet", cfg.MatchesPath)
	assert.Equal(t, 9, cfg.SigmaDefault)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Watch)
}

func TestLoadConfig_InvalidSigma(t *testing.T) {
	t.Setenv("SIGMA_DEFAULT", "20")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("SIGMA_DEFAULT", "6")
	t.Setenv("SIGMA_MIN", "16")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestChartEnvConfig_Validate(t *testing.T) {
	ok := ChartEnvConfig{SigmaMin: 3, SigmaMax: 15, SigmaDefault: 6, DisplayDPI: 150, ExportDPI: 300}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.ExportDPI = 0
	assert.Error(t, bad.Validate())
}

func TestNewReloadConfig(t *testing.T) {
	assert.Same(t, DevReloadConfig, NewReloadConfig("dev"))
	assert.Same(t, DevReloadConfig, NewReloadConfig("TEST"))
	assert.Same(t, ProdReloadConfig, NewReloadConfig("prod"))
	assert.Same(t, ProdReloadConfig, NewReloadConfig("staging"))
}

func TestLoadClientEnv(t *testing.T) {
	t.Setenv("VIEWER_URL", "http://viewer:8501")
	t.Setenv("CLIENT_RETRY_MAX", "1")

	cfg, err := LoadClientEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://viewer:8501", cfg.ViewerURL)
	assert.Equal(t, 1, cfg.RetryMax)
	assert.Equal(t, 30*time.Second, cfg.ClientTimeout)
	assert.True(t, cfg.AcceptZstd)
	assert.Equal(t, "match_momentum.png", cfg.DefaultOutFile)
}
