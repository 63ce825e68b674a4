package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/status"
)

// ShiftWorker is one worker's assignment to one shift. Check-in fields are
// written at most once; a populated CheckinTime blocks any further check-in.
type ShiftWorker struct {
	ID              uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	ShiftID         uuid.UUID               `gorm:"type:uuid;not null;index:idx_shift_worker,unique" json:"shift_id"`
	Shift           *Shift                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ShiftID;references:ID" json:"shift,omitempty"`
	WorkerID        uuid.UUID               `gorm:"type:uuid;not null;index:idx_shift_worker,unique" json:"worker_id"`
	Worker          *User                   `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkerID;references:ID" json:"worker,omitempty"`
	Status          status.AssignmentStatus `gorm:"column:status;not null;default:'confirmed'" json:"status"`
	CheckinTime     *time.Time              `gorm:"column:checkin_time" json:"checkin_time,omitempty"`
	CheckinLat      *float64                `gorm:"column:checkin_lat" json:"checkin_lat,omitempty"`
	CheckinLng      *float64                `gorm:"column:checkin_lng" json:"checkin_lng,omitempty"`
	CheckinPhotoURL string                  `gorm:"column:checkin_photo_url" json:"checkin_photo_url,omitempty"`
	CheckoutTime    *time.Time              `gorm:"column:checkout_time" json:"checkout_time,omitempty"`
	CreatedAt       time.Time               `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time               `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt          `gorm:"index" json:"deleted_at,omitempty"`
}

func (ShiftWorker) TableName() string { return "shift_worker" }

func (w *ShiftWorker) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
