package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ClientEnvConfig configures the command-line client of the viewer API.
type ClientEnvConfig struct {
	ViewerURL      string        `env:"VIEWER_URL, default=http://127.0.0.1:8501"`
	ClientTimeout  time.Duration `env:"CLIENT_TIMEOUT, default=30s"`
	RetryMax       int           `env:"CLIENT_RETRY_MAX, default=3"`
	RetryWaitMin   time.Duration `env:"CLIENT_RETRY_WAIT_MIN, default=500ms"`
	RetryWaitMax   time.Duration `env:"CLIENT_RETRY_WAIT_MAX, default=5s"`
	AcceptZstd     bool          `env:"CLIENT_ACCEPT_ZSTD, default=true"`
	DefaultOutFile string        `env:"CLIENT_OUT_FILE, default=match_momentum.png"`
}

func LoadClientEnv(ctx context.Context) (*ClientEnvConfig, error) {
	cfg := &ClientEnvConfig{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
