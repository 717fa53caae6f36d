package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/vaccine-accounts/internal/application"
	handlers "github.com/oksasatya/vaccine-accounts/internal/interface/http"
	"github.com/oksasatya/vaccine-accounts/internal/interface/middleware"
	"github.com/oksasatya/vaccine-accounts/pkg/validation"
)

// VaccineModule wires the vaccination endpoints; all of them need auth.
type VaccineModule struct {
	Handler *handlers.VaccineHandler
	Svc     *application.Service
	RDB     *redis.Client
	Allow   middleware.AllowFunc
}

func NewVaccineModule(h *handlers.VaccineHandler, svc *application.Service, rdb *redis.Client, allow middleware.AllowFunc) *VaccineModule {
	return &VaccineModule{Handler: h, Svc: svc, RDB: rdb, Allow: allow}
}

var (
	modifyVaccineSchema = validation.Schema{
		validation.Optional("vaccine_name", validation.String),
		validation.Optional("first_doze_taken", validation.Boolean),
		validation.Optional("first_doze_date", validation.String),
		validation.Optional("second_doze_taken", validation.Boolean),
		validation.Optional("second_doze_date", validation.String),
		validation.Optional("is_fully_vaccinated", validation.Boolean),
	}
	listVaccineSchema = validation.Schema{
		validation.Optional("filter", validation.String),
		validation.Optional("value", validation.String),
		validation.Optional("auth", validation.String),
	}
)

func (m *VaccineModule) Register(rg *gin.RouterGroup) {
	auth := middleware.Auth(m.Svc.Tokens, m.Svc)
	userLimiter := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIdentity(), m.Allow)

	rg.GET("/vaccines", validation.Params(listVaccineSchema), auth, userLimiter, m.Handler.List)
	rg.PUT("/vaccines/:id", validation.Params(modifyVaccineSchema), auth, userLimiter, m.Handler.Modify)
	rg.GET("/vaccines/:id", auth, userLimiter, m.Handler.Get)
}
