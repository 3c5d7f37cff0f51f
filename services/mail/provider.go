package mail

import (
	"github.com/arman-dehghani/campushub/config"
	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/arman-dehghani/campushub/services/logging"
	"go.uber.org/fx"
)

// ProvideMailService yields nil when mail is disabled; the auth service treats
// a nil collaborator as "skip notifications".
func ProvideMailService(cfg *config.Config, logger *logging.Service) (auth.MailService, error) {
	if !cfg.Mail.Enabled {
		return nil, nil
	}
	return NewService(&cfg.Mail, logger)
}

var Options = fx.Options(
	fx.Provide(ProvideMailService),
)
