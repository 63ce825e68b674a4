package app

import (
	"github.com/gin-gonic/gin"

	"github.com/smenalab/smena-backend/internal/middleware"
	"github.com/smenalab/smena-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, requestLogger *middleware.RequestLogger) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ShiftHandler:     handlers.Shift,
		LifecycleHandler: handlers.Lifecycle,
		RequestLogger:    requestLogger,
		AllowOrigins:     cfg.AllowOrigins,
	})
}
