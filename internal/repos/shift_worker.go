package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/status"
	"github.com/smenalab/smena-backend/internal/types"
)

type ShiftWorkerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ShiftWorker) (*types.ShiftWorker, error)
	GetByShiftAndWorker(ctx context.Context, tx *gorm.DB, shiftID, workerID uuid.UUID) (*types.ShiftWorker, error)
	ListByShift(ctx context.Context, tx *gorm.DB, shiftID uuid.UUID) ([]*types.ShiftWorker, error)
	MarkCheckedIn(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time, lat, lng float64, photoURL string) error
	MarkCheckedOut(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	CountNotCheckedOut(ctx context.Context, tx *gorm.DB, shiftID uuid.UUID) (int64, error)
}

type shiftWorkerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShiftWorkerRepo(db *gorm.DB, baseLog *logger.Logger) ShiftWorkerRepo {
	repoLog := baseLog.With("repo", "ShiftWorkerRepo")
	return &shiftWorkerRepo{db: db, log: repoLog}
}

func (r *shiftWorkerRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ShiftWorker) (*types.ShiftWorker, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, errors.New("nil shift worker")
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *shiftWorkerRepo) GetByShiftAndWorker(ctx context.Context, tx *gorm.DB, shiftID, workerID uuid.UUID) (*types.ShiftWorker, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.ShiftWorker
	if err := transaction.WithContext(ctx).
		Where("shift_id = ? AND worker_id = ?", shiftID, workerID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *shiftWorkerRepo) ListByShift(ctx context.Context, tx *gorm.DB, shiftID uuid.UUID) ([]*types.ShiftWorker, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ShiftWorker
	if shiftID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkCheckedIn writes the check-in fields only if they are still empty, so a
// racing double submission cannot overwrite the original evidence.
func (r *shiftWorkerRepo) MarkCheckedIn(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time, lat, lng float64, photoURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.ShiftWorker{}).
		Where("id = ? AND checkin_time IS NULL", id).
		Updates(map[string]interface{}{
			"status":            status.AssignmentCheckedIn,
			"checkin_time":      at,
			"checkin_lat":       lat,
			"checkin_lng":       lng,
			"checkin_photo_url": photoURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shiftWorkerRepo) MarkCheckedOut(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.ShiftWorker{}).
		Where("id = ? AND checkin_time IS NOT NULL AND checkout_time IS NULL", id).
		Updates(map[string]interface{}{
			"status":        status.AssignmentCheckedOut,
			"checkout_time": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shiftWorkerRepo) CountNotCheckedOut(ctx context.Context, tx *gorm.DB, shiftID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ShiftWorker{}).
		Where("shift_id = ? AND checkout_time IS NULL", shiftID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
