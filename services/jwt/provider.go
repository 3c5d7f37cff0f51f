package jwt

import (
	"github.com/arman-dehghani/campushub/config"
	"github.com/arman-dehghani/campushub/services/logging"
	"go.uber.org/fx"
)

func NewJWTService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(cfg, logger)
}

var Options = fx.Options(
	fx.Provide(NewJWTService),
)
