package cmd

import (
	"fmt"

	"github.com/rubiojr/ofertas/pkg/config"
	"github.com/rubiojr/ofertas/pkg/search"
)

// searchOptions maps the loaded configuration onto orchestrator options.
func searchOptions(cfg *config.Config) search.Options {
	return search.Options{
		APIKey:           cfg.APIKey,
		Model:            cfg.Model,
		DegradeOnFailure: cfg.DegradeOnFailure,
		ProviderTimeout:  cfg.ProviderTimeout.Duration,
		FallbackDelay:    cfg.FallbackDelay.Duration,
	}
}

// loadConfig loads configPath and logs where the API key came from.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.APIKeySource == "" {
		logger.Warnf("no API key configured, searches will use the offline analysis")
	} else {
		logger.Debugf("API key from %s", cfg.APIKeySource)
	}
	return cfg, nil
}
