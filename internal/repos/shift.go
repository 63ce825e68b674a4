package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/status"
	"github.com/smenalab/smena-backend/internal/types"
)

type ShiftRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Shift) (*types.Shift, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Shift, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Shift, error)
	ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Shift, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus status.ShiftStatus) error
}

type shiftRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShiftRepo(db *gorm.DB, baseLog *logger.Logger) ShiftRepo {
	repoLog := baseLog.With("repo", "ShiftRepo")
	return &shiftRepo{db: db, log: repoLog}
}

func (r *shiftRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Shift) (*types.Shift, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, errors.New("nil shift")
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *shiftRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Shift, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Shift
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetByIDForUpdate loads a shift under a row lock so a concurrent
// read-validate-write of the status column serializes per shift. Sqlite has
// no FOR UPDATE; its single-writer transactions give the same guarantee.
func (r *shiftRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Shift, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx)
	if transaction.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row types.Shift
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *shiftRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Shift, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Shift
	if clientID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC, start_time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *shiftRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus status.ShiftStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Shift{}).
		Where("id = ?", id).
		Update("status", newStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
