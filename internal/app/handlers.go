package app

import (
	"github.com/smenalab/smena-backend/internal/handlers"
	"github.com/smenalab/smena-backend/internal/logger"
)

type Handlers struct {
	Shift     *handlers.ShiftHandler
	Lifecycle *handlers.LifecycleHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Shift:     handlers.NewShiftHandler(services.Shift),
		Lifecycle: handlers.NewLifecycleHandler(services.Lifecycle),
	}
}
