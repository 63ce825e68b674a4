package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/apierr"
	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/repos"
	"github.com/smenalab/smena-backend/internal/status"
	"github.com/smenalab/smena-backend/internal/types"
)

type CreateShiftInput struct {
	ClientID        uuid.UUID
	Title           string
	Status          string
	Date            string
	StartTime       string
	EndTime         string
	LocationAddress string
	LocationLat     *float64
	LocationLng     *float64
	WorkersNeeded   int
	HourlyRate      int
	Metadata        datatypes.JSON
}

type TransitionOption struct {
	Status status.ShiftStatus `json:"status"`
	Label  string             `json:"label"`
	Color  string             `json:"color"`
}

// ShiftService is the thin CRUD surface around shifts and assignments. It
// never touches the status column of an existing shift; that is the
// lifecycle service's job.
type ShiftService interface {
	CreateShift(ctx context.Context, in CreateShiftInput) (*types.Shift, error)
	GetShift(ctx context.Context, id uuid.UUID) (*types.Shift, error)
	ListShiftsByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Shift, error)
	AllowedNextStatuses(ctx context.Context, shiftID uuid.UUID) ([]TransitionOption, error)
	AssignWorker(ctx context.Context, shiftID, workerID uuid.UUID) (*types.ShiftWorker, error)
}

type shiftService struct {
	db         *gorm.DB
	log        *logger.Logger
	shiftRepo  repos.ShiftRepo
	workerRepo repos.ShiftWorkerRepo
	userRepo   repos.UserRepo
}

func NewShiftService(
	db *gorm.DB,
	baseLog *logger.Logger,
	shiftRepo repos.ShiftRepo,
	workerRepo repos.ShiftWorkerRepo,
	userRepo repos.UserRepo,
) ShiftService {
	return &shiftService{
		db:         db,
		log:        baseLog.With("service", "ShiftService"),
		shiftRepo:  shiftRepo,
		workerRepo: workerRepo,
		userRepo:   userRepo,
	}
}

func (s *shiftService) CreateShift(ctx context.Context, in CreateShiftInput) (*types.Shift, error) {
	if in.ClientID == uuid.Nil {
		return nil, apierr.InvalidInput("client id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apierr.InvalidInput("title is required")
	}

	initial := status.ShiftDraft
	if raw := strings.TrimSpace(in.Status); raw != "" {
		parsed, err := status.Parse(raw)
		if err != nil {
			return nil, apierr.InvalidInput("invalid status %q", raw)
		}
		// A shift is born draft or goes straight to published; every other
		// status is reachable only through transitions.
		if parsed != status.ShiftDraft && parsed != status.ShiftPublished {
			return nil, apierr.InvalidInput("a new shift may only be %s or %s", status.ShiftDraft, status.ShiftPublished)
		}
		initial = parsed
	}

	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return nil, apierr.InvalidInput("invalid date %q, expected YYYY-MM-DD", in.Date)
	}
	if _, err := time.Parse(timeLayout, in.StartTime); err != nil {
		return nil, apierr.InvalidInput("invalid start time %q, expected HH:MM", in.StartTime)
	}
	if _, err := time.Parse(timeLayout, in.EndTime); err != nil {
		return nil, apierr.InvalidInput("invalid end time %q, expected HH:MM", in.EndTime)
	}

	client, err := s.userRepo.GetByID(ctx, nil, in.ClientID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if client == nil {
		return nil, apierr.NotFound("client %s not found", in.ClientID)
	}

	workersNeeded := in.WorkersNeeded
	if workersNeeded <= 0 {
		workersNeeded = 1
	}

	row := &types.Shift{
		ClientID:        in.ClientID,
		Title:           strings.TrimSpace(in.Title),
		Status:          initial,
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		LocationAddress: strings.TrimSpace(in.LocationAddress),
		LocationLat:     in.LocationLat,
		LocationLng:     in.LocationLng,
		WorkersNeeded:   workersNeeded,
		HourlyRate:      in.HourlyRate,
		Metadata:        in.Metadata,
	}
	created, err := s.shiftRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	s.log.Info("shift created", "shift_id", created.ID, "client_id", created.ClientID, "status", created.Status)
	return created, nil
}

func (s *shiftService) GetShift(ctx context.Context, id uuid.UUID) (*types.Shift, error) {
	if id == uuid.Nil {
		return nil, apierr.InvalidInput("shift id is required")
	}
	shift, err := s.shiftRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if shift == nil {
		return nil, apierr.NotFound("shift %s not found", id)
	}
	return shift, nil
}

func (s *shiftService) ListShiftsByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Shift, error) {
	if clientID == uuid.Nil {
		return nil, apierr.InvalidInput("client id is required")
	}
	shifts, err := s.shiftRepo.ListByClient(ctx, nil, clientID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return shifts, nil
}

func (s *shiftService) AllowedNextStatuses(ctx context.Context, shiftID uuid.UUID) ([]TransitionOption, error) {
	shift, err := s.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	allowed, aerr := status.AllowedTransitions(shift.Status)
	if aerr != nil {
		return nil, apierr.Internal(aerr)
	}

	options := make([]TransitionOption, 0, len(allowed))
	for _, st := range allowed {
		options = append(options, TransitionOption{
			Status: st,
			Label:  st.Label(),
			Color:  st.Color(),
		})
	}
	return options, nil
}

func (s *shiftService) AssignWorker(ctx context.Context, shiftID, workerID uuid.UUID) (*types.ShiftWorker, error) {
	if shiftID == uuid.Nil || workerID == uuid.Nil {
		return nil, apierr.InvalidInput("shift id and worker id are required")
	}

	shift, err := s.shiftRepo.GetByID(ctx, nil, shiftID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if shift == nil {
		return nil, apierr.NotFound("shift %s not found", shiftID)
	}

	terminal, terr := status.IsTerminal(shift.Status)
	if terr != nil {
		return nil, apierr.Internal(terr)
	}
	if terminal || shift.Status == status.ShiftCompleted {
		return nil, apierr.New(http.StatusConflict, apierr.CodeInvalidTransition, nil).
			WithDetails(map[string]interface{}{"current_status": shift.Status})
	}

	worker, err := s.userRepo.GetByID(ctx, nil, workerID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if worker == nil {
		return nil, apierr.NotFound("worker %s not found", workerID)
	}

	existing, err := s.workerRepo.GetByShiftAndWorker(ctx, nil, shiftID, workerID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if existing != nil {
		return existing, nil
	}

	row := &types.ShiftWorker{
		ShiftID:  shiftID,
		WorkerID: workerID,
		Status:   status.AssignmentConfirmed,
	}
	created, err := s.workerRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	s.log.Info("worker assigned", "shift_id", shiftID, "worker_id", workerID)
	return created, nil
}
