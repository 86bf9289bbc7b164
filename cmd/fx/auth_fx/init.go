package auth_fx

import (
	"go.uber.org/fx"

	"itinera/internal/infra"
	"itinera/pkg/utils"
)

var Module = fx.Provide(provideJWTManager)

func provideJWTManager(cfg infra.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWTSecret)
}
