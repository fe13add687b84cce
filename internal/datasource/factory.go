package datasource

import (
	"fmt"
	"log"

	"github.com/yourusername/wildcard-sim/internal/config"
)

// Factory creates Provider implementations based on configuration
type Factory struct {
	logger *log.Logger
}

// NewFactory creates a new provider factory
func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewProvider creates the provider named by the configuration
func (f *Factory) NewProvider(cfg config.DataSourceConfig) (Provider, error) {
	switch cfg.Provider {
	case "espn":
		httpCfg := DefaultHTTPClientConfig()
		httpCfg.Timeout = cfg.RequestTimeout()
		httpCfg.MaxRetries = cfg.RetryMax
		httpCfg.RateLimit = cfg.RequestsPerSecond

		httpClient := NewRateLimitedHTTPClient(httpCfg, f.logger)
		return NewESPNClient(httpClient, cfg.BaseURL, cfg.CacheTTL(), f.logger), nil

	case "file":
		if cfg.SnapshotFile == "" {
			return nil, fmt.Errorf("file provider requires datasource.snapshot_file")
		}
		return NewFileProvider(cfg.SnapshotFile, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
