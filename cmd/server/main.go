package main

import (
	"github.com/arman-dehghani/campushub/config"
	"github.com/arman-dehghani/campushub/database"
	"github.com/arman-dehghani/campushub/handlers"
	"github.com/arman-dehghani/campushub/server"
	"github.com/arman-dehghani/campushub/services/auth"
	"github.com/arman-dehghani/campushub/services/event"
	"github.com/arman-dehghani/campushub/services/jwt"
	"github.com/arman-dehghani/campushub/services/logging"
	"github.com/arman-dehghani/campushub/services/mail"
	"github.com/arman-dehghani/campushub/services/tokenstore"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.NewProvider(nil),
		logging.Module,
		fx.Provide(func() *database.ModelsOption {
			return database.WithModels(
				&auth.Role{},
				&auth.User{},
				&tokenstore.TokenRecord{},
				&event.Event{},
				&event.Participation{},
			)
		}),
		database.Module,
		jwt.Options,
		tokenstore.Options,
		auth.Module,
		mail.Options,
		event.Options,
		server.NewProvider(),
		handlers.Options,
		fx.Invoke(func(authSvc *auth.Service) error {
			return authSvc.SeedReferenceData()
		}),
	)

	app.Run()
}
