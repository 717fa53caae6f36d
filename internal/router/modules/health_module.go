package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vaccine-accounts/pkg/response"
)

// Pinger checks backing services.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthModule struct {
	Deps Pinger
}

func NewHealthModule(deps Pinger) *HealthModule { return &HealthModule{Deps: deps} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := m.Deps.Ping(ctx); err != nil {
			response.JSON(c, response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", gin.H{"message": err.Error()}))
			return
		}
		response.JSON(c, response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil))
	})
}
