package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/smenalab/smena-backend/internal/handlers"
	"github.com/smenalab/smena-backend/internal/middleware"
)

type RouterConfig struct {
	ShiftHandler     *handlers.ShiftHandler
	LifecycleHandler *handlers.LifecycleHandler
	RequestLogger    *middleware.RequestLogger
	AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("smena-backend"))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handler())
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     trimAll(origins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/shifts", cfg.ShiftHandler.CreateShift)
		api.GET("/shifts/:id", cfg.ShiftHandler.GetShift)
		api.GET("/shifts/:id/transitions", cfg.ShiftHandler.GetAllowedTransitions)
		api.POST("/shifts/:id/workers", cfg.ShiftHandler.AssignWorker)
		api.GET("/clients/:id/shifts", cfg.ShiftHandler.ListClientShifts)

		api.PATCH("/shifts/:id/status", cfg.LifecycleHandler.UpdateStatus)
		api.GET("/shifts/:id/status/history", cfg.LifecycleHandler.GetStatusHistory)
		api.POST("/shifts/:id/checkin", cfg.LifecycleHandler.CheckIn)
		api.POST("/shifts/:id/checkout", cfg.LifecycleHandler.CheckOut)
	}

	return router
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
