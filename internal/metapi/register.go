package metapi

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
	"github.com/vovakirdan/guess-the-met/internal/config"
	"github.com/vovakirdan/guess-the-met/internal/registry"
)

func init() {
	registry.Register("met", "The Met Collection API", func(cfg config.Config, logger *log.Logger) (artwork.Source, error) {
		mc := cfg.Source.Met
		return New(mc.BaseURL,
			WithHTTPClient(&http.Client{Timeout: mc.Timeout}),
			WithLogger(logger),
			WithUserAgent(mc.UserAgent),
			WithImageAttempts(mc.ImageAttempts),
			WithCacheTTL(mc.SearchCacheTTL),
			WithYearLimits(cfg.Settings.YearMin, cfg.Settings.YearMax),
		), nil
	})
}
