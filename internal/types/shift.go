package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/status"
)

// Shift is a posted job with a fixed date and wall-clock time window. Date and
// times are stored without a timezone; the check-in window is evaluated
// against the server's local clock.
type Shift struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	Title           string             `gorm:"column:title;not null" json:"title"`
	Status          status.ShiftStatus `gorm:"column:status;not null;default:'draft';index" json:"status"`
	Date            string             `gorm:"column:date;not null;index" json:"date"`
	StartTime       string             `gorm:"column:start_time;not null" json:"start_time"`
	EndTime         string             `gorm:"column:end_time;not null" json:"end_time"`
	LocationAddress string             `gorm:"column:location_address" json:"location_address"`
	LocationLat     *float64           `gorm:"column:location_lat" json:"location_lat,omitempty"`
	LocationLng     *float64           `gorm:"column:location_lng" json:"location_lng,omitempty"`
	WorkersNeeded   int                `gorm:"column:workers_needed;not null;default:1" json:"workers_needed"`
	HourlyRate      int                `gorm:"column:hourly_rate;not null;default:0" json:"hourly_rate"`
	Metadata        datatypes.JSON     `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (Shift) TableName() string { return "shift" }

func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
