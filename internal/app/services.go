package app

import (
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/events"
	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/services"
	"github.com/smenalab/smena-backend/internal/telegram"
)

type Services struct {
	Notifier  services.ShiftNotifier
	Shift     services.ShiftService
	Lifecycle services.LifecycleService

	publisher events.Publisher
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) Services {
	log.Info("Wiring services...")

	// Both notification sinks are optional: local setups run without redis
	// or a bot token, and the notifier skips whatever is missing.
	publisher, err := events.NewRedisPublisher(log)
	if err != nil {
		log.Warn("redis event publisher unavailable, events disabled", "error", err)
		publisher = nil
	}
	tg, err := telegram.NewFromEnv(log)
	if err != nil {
		log.Warn("telegram client unavailable, messages disabled", "error", err)
		tg = nil
	}

	notifier := services.NewShiftNotifier(log, publisher, tg, reposet.User)
	clock := services.NewSystemClock()

	return Services{
		Notifier:  notifier,
		Shift:     services.NewShiftService(db, log, reposet.Shift, reposet.ShiftWorker, reposet.User),
		Lifecycle: services.NewLifecycleService(db, log, reposet.Shift, reposet.ShiftWorker, reposet.ShiftStatusLog, notifier, clock),
		publisher: publisher,
	}
}
