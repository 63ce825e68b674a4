package services

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/apierr"
	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/repos"
	"github.com/smenalab/smena-backend/internal/status"
	"github.com/smenalab/smena-backend/internal/types"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// Check-in opens 30 minutes before the scheduled start and closes 60
	// minutes after it.
	checkInOpensBeforeMin = 30
	checkInClosesAfterMin = 60
)

type StatusUpdateResult struct {
	ShiftID        uuid.UUID          `json:"shift_id"`
	PreviousStatus status.ShiftStatus `json:"previous_status"`
	NewStatus      status.ShiftStatus `json:"new_status"`
	StatusLabel    string             `json:"status_label"`
}

type StatusHistory struct {
	ShiftID       uuid.UUID               `json:"shift_id"`
	CurrentStatus status.ShiftStatus      `json:"current_status"`
	History       []*types.ShiftStatusLog `json:"history"`
}

type CheckInInput struct {
	ShiftID   uuid.UUID
	WorkerID  uuid.UUID
	Latitude  float64
	Longitude float64
	PhotoURL  string
}

type CheckInResult struct {
	ShiftID     uuid.UUID `json:"shift_id"`
	WorkerID    uuid.UUID `json:"worker_id"`
	CheckinTime time.Time `json:"checkin_time"`
}

type CheckOutResult struct {
	ShiftID        uuid.UUID `json:"shift_id"`
	WorkerID       uuid.UUID `json:"worker_id"`
	CheckoutTime   time.Time `json:"checkout_time"`
	ShiftCompleted bool      `json:"shift_completed"`
}

// LifecycleService owns every write to a shift's status column. All changes
// go through the transition table; nothing else in the codebase writes that
// field.
type LifecycleService interface {
	UpdateShiftStatus(ctx context.Context, shiftID uuid.UUID, requestedStatus string, reason *string) (*StatusUpdateResult, error)
	GetStatusHistory(ctx context.Context, shiftID uuid.UUID) (*StatusHistory, error)
	CheckIn(ctx context.Context, in CheckInInput) (*CheckInResult, error)
	CheckOut(ctx context.Context, shiftID, workerID uuid.UUID) (*CheckOutResult, error)
}

type lifecycleService struct {
	db            *gorm.DB
	log           *logger.Logger
	shiftRepo     repos.ShiftRepo
	workerRepo    repos.ShiftWorkerRepo
	statusLogRepo repos.ShiftStatusLogRepo
	notifier      ShiftNotifier
	clock         Clock
}

func NewLifecycleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	shiftRepo repos.ShiftRepo,
	workerRepo repos.ShiftWorkerRepo,
	statusLogRepo repos.ShiftStatusLogRepo,
	notifier ShiftNotifier,
	clock Clock,
) LifecycleService {
	if clock == nil {
		clock = NewSystemClock()
	}
	return &lifecycleService{
		db:            db,
		log:           baseLog.With("service", "LifecycleService"),
		shiftRepo:     shiftRepo,
		workerRepo:    workerRepo,
		statusLogRepo: statusLogRepo,
		notifier:      notifier,
		clock:         clock,
	}
}

func (s *lifecycleService) UpdateShiftStatus(ctx context.Context, shiftID uuid.UUID, requestedStatus string, reason *string) (*StatusUpdateResult, error) {
	if shiftID == uuid.Nil {
		return nil, apierr.InvalidInput("shift id is required")
	}
	// Parse before any persistence access so malformed input fails fast.
	requested, err := status.Parse(requestedStatus)
	if err != nil {
		return nil, apierr.InvalidInput("invalid status %q", requestedStatus).
			WithDetails(map[string]interface{}{"requested_status": requestedStatus})
	}

	var (
		shift *types.Shift
		from  status.ShiftStatus
	)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sh, err := s.shiftRepo.GetByIDForUpdate(ctx, tx, shiftID)
		if err != nil {
			return apierr.Internal(err)
		}
		if sh == nil {
			return apierr.NotFound("shift %s not found", shiftID)
		}

		ok, verr := status.ValidateTransition(sh.Status, requested)
		if verr != nil {
			// Unknown current status means corrupt stored data, not bad input.
			return apierr.Internal(verr)
		}
		if !ok {
			return invalidTransitionError(sh.Status, requested)
		}

		if err := s.shiftRepo.UpdateStatus(ctx, tx, shiftID, requested); err != nil {
			return apierr.Internal(err)
		}

		shift = sh
		from = sh.Status
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}

	// The status write above is the durable fact of record; the audit entry
	// and notification are best-effort and must not undo it.
	s.appendStatusLog(ctx, shiftID, from, requested, reason)
	shift.Status = requested
	s.notifier.StatusChanged(shift, from, requested, derefString(reason))

	s.log.Info("shift status updated", "shift_id", shiftID, "from", from, "to", requested)
	return &StatusUpdateResult{
		ShiftID:        shiftID,
		PreviousStatus: from,
		NewStatus:      requested,
		StatusLabel:    requested.Label(),
	}, nil
}

func (s *lifecycleService) GetStatusHistory(ctx context.Context, shiftID uuid.UUID) (*StatusHistory, error) {
	if shiftID == uuid.Nil {
		return nil, apierr.InvalidInput("shift id is required")
	}

	shift, err := s.shiftRepo.GetByID(ctx, nil, shiftID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if shift == nil {
		return nil, apierr.NotFound("shift %s not found", shiftID)
	}

	history, err := s.statusLogRepo.ListByShiftNewestFirst(ctx, nil, shiftID)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	return &StatusHistory{
		ShiftID:       shiftID,
		CurrentStatus: shift.Status,
		History:       history,
	}, nil
}

func (s *lifecycleService) CheckIn(ctx context.Context, in CheckInInput) (*CheckInResult, error) {
	if in.ShiftID == uuid.Nil || in.WorkerID == uuid.Nil {
		return nil, apierr.InvalidInput("shift id and worker id are required")
	}
	if strings.TrimSpace(in.PhotoURL) == "" {
		return nil, apierr.InvalidInput("check-in photo is required")
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return nil, apierr.InvalidInput("latitude %v out of range [-90, 90]", in.Latitude)
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return nil, apierr.InvalidInput("longitude %v out of range [-180, 180]", in.Longitude)
	}

	now := s.clock.Now()

	var (
		shift        *types.Shift
		assignment   *types.ShiftWorker
		from         status.ShiftStatus
		transitioned bool
	)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sh, err := s.shiftRepo.GetByIDForUpdate(ctx, tx, in.ShiftID)
		if err != nil {
			return apierr.Internal(err)
		}
		if sh == nil {
			return apierr.NotFound("shift %s not found", in.ShiftID)
		}

		today := now.Format(dateLayout)
		if sh.Date != today {
			return apierr.New(http.StatusConflict, apierr.CodeWrongDay, nil).
				WithDetails(map[string]interface{}{
					"shift_date":  sh.Date,
					"server_date": today,
				})
		}

		asn, err := s.workerRepo.GetByShiftAndWorker(ctx, tx, in.ShiftID, in.WorkerID)
		if err != nil {
			return apierr.Internal(err)
		}
		if asn == nil {
			return apierr.New(http.StatusForbidden, apierr.CodeNotAssigned, nil).
				WithDetails(map[string]interface{}{
					"shift_id":  in.ShiftID,
					"worker_id": in.WorkerID,
				})
		}
		if asn.CheckinTime != nil {
			return apierr.New(http.StatusConflict, apierr.CodeAlreadyCheckedIn, nil).
				WithDetails(map[string]interface{}{"checkin_time": asn.CheckinTime})
		}

		start, err := shiftStart(sh, now.Location())
		if err != nil {
			return apierr.Internal(err)
		}
		minutesUntil := start.Sub(now).Minutes()
		if minutesUntil > checkInOpensBeforeMin {
			availableIn := int(math.Ceil(minutesUntil)) - checkInOpensBeforeMin
			return apierr.New(http.StatusConflict, apierr.CodeOutsideCheckInWindow, nil).
				WithDetails(map[string]interface{}{
					"available_in_minutes": availableIn,
				})
		}
		if minutesUntil < -checkInClosesAfterMin {
			closedAgo := int(math.Floor(-minutesUntil)) - checkInClosesAfterMin
			return apierr.New(http.StatusConflict, apierr.CodeOutsideCheckInWindow, nil).
				WithDetails(map[string]interface{}{
					"window_closed":             true,
					"window_closed_minutes_ago": closedAgo,
				})
		}

		if err := s.workerRepo.MarkCheckedIn(ctx, tx, asn.ID, now, in.Latitude, in.Longitude, in.PhotoURL); err != nil {
			if err == gorm.ErrRecordNotFound {
				// Lost a race with another submission for the same assignment.
				return apierr.New(http.StatusConflict, apierr.CodeAlreadyCheckedIn, nil)
			}
			return apierr.Internal(err)
		}

		from = sh.Status
		if sh.Status != status.ShiftCheckingIn {
			// The shift transition goes through the same validated path as a
			// plain status update. If checking_in is not reachable from the
			// current status the whole transaction rolls back, including the
			// assignment write above, so the two records never diverge.
			ok, verr := status.ValidateTransition(sh.Status, status.ShiftCheckingIn)
			if verr != nil {
				return apierr.Internal(verr)
			}
			if !ok {
				return invalidTransitionError(sh.Status, status.ShiftCheckingIn)
			}
			if err := s.shiftRepo.UpdateStatus(ctx, tx, sh.ID, status.ShiftCheckingIn); err != nil {
				return apierr.Internal(err)
			}
			transitioned = true
		}

		shift = sh
		assignment = asn
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}

	if transitioned {
		s.appendStatusLog(ctx, in.ShiftID, from, status.ShiftCheckingIn, nil)
	}

	assignment.Status = status.AssignmentCheckedIn
	assignment.CheckinTime = &now
	assignment.CheckinLat = &in.Latitude
	assignment.CheckinLng = &in.Longitude
	assignment.CheckinPhotoURL = in.PhotoURL
	shift.Status = status.ShiftCheckingIn
	s.notifier.WorkerCheckedIn(shift, assignment)

	s.log.Info("worker checked in", "shift_id", in.ShiftID, "worker_id", in.WorkerID)
	return &CheckInResult{
		ShiftID:     in.ShiftID,
		WorkerID:    in.WorkerID,
		CheckinTime: now,
	}, nil
}

func (s *lifecycleService) CheckOut(ctx context.Context, shiftID, workerID uuid.UUID) (*CheckOutResult, error) {
	if shiftID == uuid.Nil || workerID == uuid.Nil {
		return nil, apierr.InvalidInput("shift id and worker id are required")
	}

	now := s.clock.Now()

	var (
		shift      *types.Shift
		assignment *types.ShiftWorker
		from       status.ShiftStatus
		completed  bool
	)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sh, err := s.shiftRepo.GetByIDForUpdate(ctx, tx, shiftID)
		if err != nil {
			return apierr.Internal(err)
		}
		if sh == nil {
			return apierr.NotFound("shift %s not found", shiftID)
		}

		asn, err := s.workerRepo.GetByShiftAndWorker(ctx, tx, shiftID, workerID)
		if err != nil {
			return apierr.Internal(err)
		}
		if asn == nil {
			return apierr.New(http.StatusForbidden, apierr.CodeNotAssigned, nil)
		}
		if asn.CheckinTime == nil {
			return apierr.New(http.StatusConflict, apierr.CodeNotCheckedIn, nil)
		}
		if asn.CheckoutTime != nil {
			return apierr.New(http.StatusConflict, apierr.CodeAlreadyCheckedOut, nil).
				WithDetails(map[string]interface{}{"checkout_time": asn.CheckoutTime})
		}

		if err := s.workerRepo.MarkCheckedOut(ctx, tx, asn.ID, now); err != nil {
			if err == gorm.ErrRecordNotFound {
				return apierr.New(http.StatusConflict, apierr.CodeAlreadyCheckedOut, nil)
			}
			return apierr.Internal(err)
		}

		// Last worker out may complete the shift, but only when the table
		// allows it from the current status.
		remaining, err := s.workerRepo.CountNotCheckedOut(ctx, tx, shiftID)
		if err != nil {
			return apierr.Internal(err)
		}
		if remaining == 0 {
			ok, verr := status.ValidateTransition(sh.Status, status.ShiftCompleted)
			if verr == nil && ok {
				if err := s.shiftRepo.UpdateStatus(ctx, tx, shiftID, status.ShiftCompleted); err != nil {
					return apierr.Internal(err)
				}
				from = sh.Status
				completed = true
			}
		}

		shift = sh
		assignment = asn
		return nil
	})
	if txErr != nil {
		return nil, apierr.From(txErr)
	}

	if completed {
		s.appendStatusLog(ctx, shiftID, from, status.ShiftCompleted, nil)
		shift.Status = status.ShiftCompleted
	}

	assignment.Status = status.AssignmentCheckedOut
	assignment.CheckoutTime = &now
	s.notifier.WorkerCheckedOut(shift, assignment)

	s.log.Info("worker checked out", "shift_id", shiftID, "worker_id", workerID, "shift_completed", completed)
	return &CheckOutResult{
		ShiftID:        shiftID,
		WorkerID:       workerID,
		CheckoutTime:   now,
		ShiftCompleted: completed,
	}, nil
}

// appendStatusLog records an accepted transition on the audit trail. A
// failure here is logged and swallowed: the status change already committed
// and stays committed.
func (s *lifecycleService) appendStatusLog(ctx context.Context, shiftID uuid.UUID, from, to status.ShiftStatus, reason *string) {
	entry := &types.ShiftStatusLog{
		ShiftID:    shiftID,
		FromStatus: from,
		ToStatus:   to,
		Reason:     reason,
		CreatedAt:  s.clock.Now(),
	}
	if _, err := s.statusLogRepo.Append(ctx, nil, entry); err != nil {
		s.log.Error("status log append failed", "shift_id", shiftID, "from", from, "to", to, "error", err)
	}
}

func invalidTransitionError(current, requested status.ShiftStatus) *apierr.Error {
	return apierr.InvalidTransition("cannot change shift status from %s to %s", current, requested).
		WithDetails(map[string]interface{}{
			"current_status":   current,
			"requested_status": requested,
			"current_label":    current.Label(),
			"requested_label":  requested.Label(),
		})
}

func shiftStart(sh *types.Shift, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, sh.Date+" "+sh.StartTime, loc)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
