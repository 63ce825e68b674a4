package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/status"
)

// ShiftStatusLog is an append-only audit record of one accepted status
// transition. Rows are never updated or deleted.
type ShiftStatusLog struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ShiftID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"shift_id"`
	Shift      *Shift             `gorm:"constraint:OnDelete:CASCADE;foreignKey:ShiftID;references:ID" json:"shift,omitempty"`
	FromStatus status.ShiftStatus `gorm:"column:from_status;not null" json:"from_status"`
	ToStatus   status.ShiftStatus `gorm:"column:to_status;not null" json:"to_status"`
	Reason     *string            `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt  time.Time          `gorm:"not null;index" json:"created_at"`
}

func (ShiftStatusLog) TableName() string { return "shift_status_log" }

func (l *ShiftStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
