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

// AccountModule wires the account endpoints.
// Public: POST /account/register, POST /account/login
// Protected: PUT, DELETE and GET /account/:id
type AccountModule struct {
	Handler *handlers.AccountHandler
	Svc     *application.Service
	RDB     *redis.Client
	Allow   middleware.AllowFunc
}

func NewAccountModule(h *handlers.AccountHandler, svc *application.Service, rdb *redis.Client, allow middleware.AllowFunc) *AccountModule {
	return &AccountModule{Handler: h, Svc: svc, RDB: rdb, Allow: allow}
}

var (
	registerSchema = validation.Schema{
		validation.Required("email", validation.String),
		validation.Required("password", validation.String),
		validation.Required("name", validation.String),
		validation.Required("gender", validation.String),
		validation.Required("age", validation.Integer),
		validation.Required("phone_number", validation.String),
		validation.Required("account_type", validation.String),
	}
	loginSchema = validation.Schema{
		validation.Required("email", validation.String),
		validation.Required("password", validation.String),
	}
	modifyAccountSchema = validation.Schema{
		validation.Optional("updated_email", validation.String),
		validation.Optional("password", validation.String),
		validation.Optional("name", validation.String),
		validation.Optional("account_type", validation.String),
		validation.Optional("gender", validation.String),
		validation.Optional("age", validation.Integer),
		validation.Optional("phone_number", validation.String),
	}
	fetchAccountSchema = validation.Schema{
		validation.Optional("filter", validation.String),
		validation.Optional("auth", validation.String),
	}
)

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), m.Allow) // 10 req/min per IP

	rg.POST("/account/register", publicLimiter, validation.Params(registerSchema), m.Handler.Register)
	rg.POST("/account/login", publicLimiter, validation.Params(loginSchema), m.Handler.Login)

	// Params runs before Auth on every protected route.
	auth := middleware.Auth(m.Svc.Tokens, m.Svc)
	userLimiter := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIdentity(), m.Allow)

	rg.PUT("/account/:id", validation.Params(modifyAccountSchema), auth, userLimiter, m.Handler.Modify)
	rg.DELETE("/account/:id", auth, userLimiter, m.Handler.Delete)
	rg.GET("/account/:id", validation.Params(fetchAccountSchema), auth, userLimiter, m.Handler.Get)
}
