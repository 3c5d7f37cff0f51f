package auth

import (
	"github.com/arman-dehghani/campushub/config"
	"github.com/arman-dehghani/campushub/services/jwt"
	"github.com/arman-dehghani/campushub/services/logging"
	"github.com/arman-dehghani/campushub/services/tokenstore"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideAuthService(cfg *config.Config, db *gorm.DB, jwtSvc *jwt.Service, store *tokenstore.Service, logger *logging.Service) *Service {
	return NewService(cfg, db, jwtSvc, store, logger)
}

type OptionalMailService struct {
	fx.In
	MailService MailService `optional:"true"`
}

func WireMailService(authSvc *Service, opt OptionalMailService) {
	if authSvc != nil && opt.MailService != nil {
		authSvc.SetMailService(opt.MailService)
	}
}

var Module = fx.Options(
	fx.Provide(ProvideAuthService),
	fx.Invoke(WireMailService),
)
