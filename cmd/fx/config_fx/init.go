package config_fx

import (
	"go.uber.org/fx"

	"itinera/internal/infra"
	"itinera/internal/services"
	"itinera/pkg/logger"
)

var Module = fx.Provide(provideConfig, provideAggregatorConfig)

func provideConfig() infra.Config {
	cfg := infra.LoadConfig()
	logger.SetLevel(cfg.LogLevel)
	return cfg
}

func provideAggregatorConfig(cfg infra.Config) services.AggregatorConfig {
	return services.AggregatorConfig{
		FallbackThreshold: cfg.ExternalFallbackThreshold,
		ProviderTimeout:   cfg.ProviderTimeout,
	}
}
