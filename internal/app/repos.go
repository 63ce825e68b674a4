package app

import (
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	Shift          repos.ShiftRepo
	ShiftWorker    repos.ShiftWorkerRepo
	ShiftStatusLog repos.ShiftStatusLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Shift:          repos.NewShiftRepo(db, log),
		ShiftWorker:    repos.NewShiftWorkerRepo(db, log),
		ShiftStatusLog: repos.NewShiftStatusLogRepo(db, log),
	}
}
