package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleWorker = "worker"
	RoleClient = "client"
	RoleShef   = "shef"
)

type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramID int64          `gorm:"column:telegram_id;not null;uniqueIndex" json:"telegram_id"`
	Role       string         `gorm:"column:role;not null;default:'worker'" json:"role"`
	FirstName  string         `gorm:"column:first_name" json:"first_name"`
	LastName   string         `gorm:"column:last_name" json:"last_name"`
	Phone      string         `gorm:"column:phone" json:"phone,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
