package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeShiftStatusChanged = "shift.status_changed"
	TypeWorkerCheckedIn    = "shift.worker_checked_in"
	TypeWorkerCheckedOut   = "shift.worker_checked_out"
)

// Event is the payload published for downstream consumers (the Telegram bot
// process and any realtime listeners).
type Event struct {
	Type       string                 `json:"type"`
	ShiftID    uuid.UUID              `json:"shift_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}
