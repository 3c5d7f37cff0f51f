package tokenstore

import (
	"github.com/arman-dehghani/campushub/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideTokenStore(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Options = fx.Options(
	fx.Provide(ProvideTokenStore),
)
