package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/types"
)

// ShiftStatusLogRepo is append-only: there are deliberately no update or
// delete methods on the audit trail.
type ShiftStatusLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, row *types.ShiftStatusLog) (*types.ShiftStatusLog, error)
	ListByShiftNewestFirst(ctx context.Context, tx *gorm.DB, shiftID uuid.UUID) ([]*types.ShiftStatusLog, error)
}

type shiftStatusLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShiftStatusLogRepo(db *gorm.DB, baseLog *logger.Logger) ShiftStatusLogRepo {
	repoLog := baseLog.With("repo", "ShiftStatusLogRepo")
	return &shiftStatusLogRepo{db: db, log: repoLog}
}

func (r *shiftStatusLogRepo) Append(ctx context.Context, tx *gorm.DB, row *types.ShiftStatusLog) (*types.ShiftStatusLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, errors.New("nil status log entry")
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *shiftStatusLogRepo) ListByShiftNewestFirst(ctx context.Context, tx *gorm.DB, shiftID uuid.UUID) ([]*types.ShiftStatusLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ShiftStatusLog
	if shiftID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
