package datasource

import (
	"time"

	"github.com/chiefotto/clustercalculator/internal/config"
	"github.com/sirupsen/logrus"
)

// NewStatsProvider builds the configured stats client
func NewStatsProvider(cfg config.StatsProviderConfig, logger *logrus.Logger) *NBAStatsClient {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.RateLimit = cfg.RequestsPerSecond

	httpClient := NewRateLimitedHTTPClient(httpCfg, logger)
	return NewNBAStatsClient(httpClient, cfg.BaseURL, cfg.Season, cfg.SeasonType, logger)
}
