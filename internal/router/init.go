package router

import (
	"github.com/oksasatya/vaccine-accounts/internal/application"
	"github.com/oksasatya/vaccine-accounts/internal/container"
	handlers "github.com/oksasatya/vaccine-accounts/internal/interface/http"
	"github.com/oksasatya/vaccine-accounts/internal/interface/middleware"
	"github.com/oksasatya/vaccine-accounts/internal/router/modules"
)

// InitModules builds service and handlers from c and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	svc := application.NewService(c.Users, c.Tokens, c.Logger)
	allow := middleware.AllowIf(c.Config.RateLimitAllowPrivate, middleware.AllowPrivateIP())

	r.Add(modules.NewHealthModule(c))
	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(svc, c.Logger), svc, c.Redis, allow))
	r.Add(modules.NewVaccineModule(handlers.NewVaccineHandler(svc, c.Logger), svc, c.Redis, allow))
}
