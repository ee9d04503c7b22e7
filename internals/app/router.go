package app

import (
	"time"

	middle "certwatch/internals/middleware"
	"certwatch/internals/modules/account"
	"certwatch/internals/modules/alertrule"
	"certwatch/internals/modules/target"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.Logger(c.Logger))
	r.Use(middleware.Timeout(5 * time.Second))

	r.Route("/api/v1", func(v1 chi.Router) {
		// register/login stay open, the account routes gate the rest themselves
		v1.Mount("/accounts", account.Routes(c.AccountHandler, c.AuthMW))

		v1.With(c.AuthMW.Handle).
			Mount("/targets", target.Routes(c.TargetHandler))

		v1.With(c.AuthMW.Handle).
			Mount("/alert-rules", alertrule.Routes(c.RuleHandler))
	})

	return r
}
