package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pulse-backend/internal/datasets"
	"pulse-backend/internal/insights"
	"pulse-backend/internal/kpi"
	"pulse-backend/internal/shared/config"
	"pulse-backend/internal/shared/metrics"
	"pulse-backend/internal/shared/server/middleware"
	"pulse-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	DatasetsHandler *datasets.Handler
	InsightsHandler *insights.Handler
	KPIHandler      *kpi.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.DatasetsHandler.RegisterRoutes(api)
	deps.InsightsHandler.RegisterRoutes(api)
	deps.KPIHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
