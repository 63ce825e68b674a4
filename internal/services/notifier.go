package services

import (
	"context"
	"fmt"
	"time"

	"github.com/smenalab/smena-backend/internal/events"
	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/repos"
	"github.com/smenalab/smena-backend/internal/status"
	"github.com/smenalab/smena-backend/internal/telegram"
	"github.com/smenalab/smena-backend/internal/types"
)

// ShiftNotifier is fire-and-forget: every method swallows failures after a
// log line. Lifecycle operations must never fail because a notification did.
type ShiftNotifier interface {
	StatusChanged(shift *types.Shift, from, to status.ShiftStatus, reason string)
	WorkerCheckedIn(shift *types.Shift, assignment *types.ShiftWorker)
	WorkerCheckedOut(shift *types.Shift, assignment *types.ShiftWorker)
}

type shiftNotifier struct {
	log       *logger.Logger
	publisher events.Publisher
	tg        telegram.Client
	userRepo  repos.UserRepo
}

// NewShiftNotifier accepts nil publisher/telegram sinks; a missing sink is
// simply skipped so local setups without redis or a bot token still run.
func NewShiftNotifier(baseLog *logger.Logger, publisher events.Publisher, tg telegram.Client, userRepo repos.UserRepo) ShiftNotifier {
	return &shiftNotifier{
		log:       baseLog.With("service", "ShiftNotifier"),
		publisher: publisher,
		tg:        tg,
		userRepo:  userRepo,
	}
}

func (n *shiftNotifier) StatusChanged(shift *types.Shift, from, to status.ShiftStatus, reason string) {
	if n == nil || shift == nil {
		return
	}
	data := map[string]interface{}{
		"from_status": from,
		"to_status":   to,
	}
	if reason != "" {
		data["reason"] = reason
	}
	n.publish(events.Event{
		Type:       events.TypeShiftStatusChanged,
		ShiftID:    shift.ID,
		OccurredAt: time.Now(),
		Data:       data,
	})
	n.message(shift, fmt.Sprintf("Shift %q is now %s.", shift.Title, to.Label()))
}

func (n *shiftNotifier) WorkerCheckedIn(shift *types.Shift, assignment *types.ShiftWorker) {
	if n == nil || shift == nil || assignment == nil {
		return
	}
	n.publish(events.Event{
		Type:       events.TypeWorkerCheckedIn,
		ShiftID:    shift.ID,
		OccurredAt: time.Now(),
		Data: map[string]interface{}{
			"worker_id":    assignment.WorkerID,
			"checkin_time": assignment.CheckinTime,
		},
	})
	n.message(shift, fmt.Sprintf("A worker checked in for shift %q.", shift.Title))
}

func (n *shiftNotifier) WorkerCheckedOut(shift *types.Shift, assignment *types.ShiftWorker) {
	if n == nil || shift == nil || assignment == nil {
		return
	}
	n.publish(events.Event{
		Type:       events.TypeWorkerCheckedOut,
		ShiftID:    shift.ID,
		OccurredAt: time.Now(),
		Data: map[string]interface{}{
			"worker_id":     assignment.WorkerID,
			"checkout_time": assignment.CheckoutTime,
		},
	})
	n.message(shift, fmt.Sprintf("A worker checked out of shift %q.", shift.Title))
}

func (n *shiftNotifier) publish(ev events.Event) {
	if n.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.publisher.Publish(ctx, ev); err != nil {
		n.log.Warn("event publish failed", "type", ev.Type, "shift_id", ev.ShiftID, "error", err)
	}
}

// message resolves the shift's client and sends a Telegram message to them.
func (n *shiftNotifier) message(shift *types.Shift, text string) {
	if n.tg == nil || n.userRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := n.userRepo.GetByID(ctx, nil, shift.ClientID)
	if err != nil || client == nil {
		n.log.Warn("notification client lookup failed", "shift_id", shift.ID, "error", err)
		return
	}
	if err := n.tg.SendMessage(ctx, client.TelegramID, text); err != nil {
		n.log.Warn("telegram notification failed", "shift_id", shift.ID, "chat_id", client.TelegramID, "error", err)
	}
}
