package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smenalab/smena-backend/internal/apierr"
	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/repos"
	"github.com/smenalab/smena-backend/internal/status"
	"github.com/smenalab/smena-backend/internal/types"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(t time.Time) { c.now = t }

type statusChange struct {
	from status.ShiftStatus
	to   status.ShiftStatus
}

type capturingNotifier struct {
	statusChanges []statusChange
	checkins      int
	checkouts     int
}

func (n *capturingNotifier) StatusChanged(shift *types.Shift, from, to status.ShiftStatus, reason string) {
	n.statusChanges = append(n.statusChanges, statusChange{from: from, to: to})
}

func (n *capturingNotifier) WorkerCheckedIn(shift *types.Shift, assignment *types.ShiftWorker) {
	n.checkins++
}

func (n *capturingNotifier) WorkerCheckedOut(shift *types.Shift, assignment *types.ShiftWorker) {
	n.checkouts++
}

type testEnv struct {
	db        *gorm.DB
	clock     *fakeClock
	notifier  *capturingNotifier
	shifts    repos.ShiftRepo
	workers   repos.ShiftWorkerRepo
	logs      repos.ShiftStatusLogRepo
	users     repos.UserRepo
	lifecycle LifecycleService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.User{}, &types.Shift{}, &types.ShiftWorker{}, &types.ShiftStatusLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	clock := &fakeClock{now: time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)}
	notifier := &capturingNotifier{}

	shiftRepo := repos.NewShiftRepo(gdb, log)
	workerRepo := repos.NewShiftWorkerRepo(gdb, log)
	logRepo := repos.NewShiftStatusLogRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)

	return &testEnv{
		db:        gdb,
		clock:     clock,
		notifier:  notifier,
		shifts:    shiftRepo,
		workers:   workerRepo,
		logs:      logRepo,
		users:     userRepo,
		lifecycle: NewLifecycleService(gdb, log, shiftRepo, workerRepo, logRepo, notifier, clock),
	}
}

var testTelegramID int64

func (e *testEnv) createUser(t *testing.T, role string) *types.User {
	t.Helper()
	testTelegramID++
	row, err := e.users.Create(context.Background(), nil, &types.User{
		TelegramID: testTelegramID,
		Role:       role,
		FirstName:  "Test",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return row
}

// createShift seeds a shift directly through the repo so a test can start
// from any lifecycle state.
func (e *testEnv) createShift(t *testing.T, st status.ShiftStatus, date, start string) *types.Shift {
	t.Helper()
	client := e.createUser(t, types.RoleClient)
	row, err := e.shifts.Create(context.Background(), nil, &types.Shift{
		ClientID:  client.ID,
		Title:     "Warehouse loading",
		Status:    st,
		Date:      date,
		StartTime: start,
		EndTime:   "22:00",
	})
	if err != nil {
		t.Fatalf("create shift: %v", err)
	}
	return row
}

func (e *testEnv) assign(t *testing.T, shiftID uuid.UUID) *types.ShiftWorker {
	t.Helper()
	worker := e.createUser(t, types.RoleWorker)
	row, err := e.workers.Create(context.Background(), nil, &types.ShiftWorker{
		ShiftID:  shiftID,
		WorkerID: worker.ID,
		Status:   status.AssignmentConfirmed,
	})
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return row
}

func (e *testEnv) shiftStatus(t *testing.T, id uuid.UUID) status.ShiftStatus {
	t.Helper()
	row, err := e.shifts.GetByID(context.Background(), nil, id)
	if err != nil || row == nil {
		t.Fatalf("reload shift: %v", err)
	}
	return row.Status
}

func (e *testEnv) logEntries(t *testing.T, id uuid.UUID) []*types.ShiftStatusLog {
	t.Helper()
	rows, err := e.logs.ListByShiftNewestFirst(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("list status log: %v", err)
	}
	return rows
}

func (e *testEnv) today() string {
	return e.clock.Now().Format("2006-01-02")
}

func (e *testEnv) at(hour, min int) time.Time {
	now := e.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	if !apierr.Is(err, code) {
		t.Fatalf("expected error code %q, got %v", code, err)
	}
}

func TestUpdateShiftStatusSuccessWritesAudit(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t, status.ShiftPublished, env.today(), "14:00")

	reason := "crew confirmed"
	result, err := env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "accepted", &reason)
	if err != nil {
		t.Fatalf("UpdateShiftStatus failed: %v", err)
	}

	if result.PreviousStatus != status.ShiftPublished {
		t.Fatalf("previous status = %s, want published", result.PreviousStatus)
	}
	if result.NewStatus != status.ShiftAccepted {
		t.Fatalf("new status = %s, want accepted", result.NewStatus)
	}
	if result.StatusLabel != status.ShiftAccepted.Label() {
		t.Fatalf("status label = %q, want %q", result.StatusLabel, status.ShiftAccepted.Label())
	}

	if got := env.shiftStatus(t, shift.ID); got != status.ShiftAccepted {
		t.Fatalf("stored status = %s, want accepted", got)
	}

	entries := env.logEntries(t, shift.ID)
	if len(entries) != 1 {
		t.Fatalf("status log entries = %d, want 1", len(entries))
	}
	if entries[0].FromStatus != status.ShiftPublished || entries[0].ToStatus != status.ShiftAccepted {
		t.Fatalf("log entry = %s → %s, want published → accepted", entries[0].FromStatus, entries[0].ToStatus)
	}
	if entries[0].Reason == nil || *entries[0].Reason != reason {
		t.Fatalf("log reason = %v, want %q", entries[0].Reason, reason)
	}

	if len(env.notifier.statusChanges) != 1 {
		t.Fatalf("notifications = %d, want 1", len(env.notifier.statusChanges))
	}
}

func TestUpdateShiftStatusRejectionLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t, status.ShiftDraft, env.today(), "14:00")

	_, err := env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "completed", nil)
	wantCode(t, err, apierr.CodeInvalidTransition)

	ae := apierr.From(err)
	if ae.Details["current_status"] != status.ShiftDraft {
		t.Fatalf("details current_status = %v, want draft", ae.Details["current_status"])
	}
	if ae.Details["requested_label"] != status.ShiftCompleted.Label() {
		t.Fatalf("details requested_label = %v, want %q", ae.Details["requested_label"], status.ShiftCompleted.Label())
	}

	if got := env.shiftStatus(t, shift.ID); got != status.ShiftDraft {
		t.Fatalf("stored status changed to %s on rejected transition", got)
	}
	if entries := env.logEntries(t, shift.ID); len(entries) != 0 {
		t.Fatalf("status log entries = %d after rejection, want 0", len(entries))
	}
	if len(env.notifier.statusChanges) != 0 {
		t.Fatalf("notifications sent on rejected transition")
	}
}

func TestUpdateShiftStatusInputValidation(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t, status.ShiftDraft, env.today(), "14:00")

	// Malformed status fails before any lookup.
	_, err := env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "bogus", nil)
	wantCode(t, err, apierr.CodeInvalidInput)

	// No-op transition is invalid, not an error in the engine.
	_, err = env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "draft", nil)
	wantCode(t, err, apierr.CodeInvalidTransition)

	_, err = env.lifecycle.UpdateShiftStatus(context.Background(), uuid.New(), "published", nil)
	wantCode(t, err, apierr.CodeNotFound)
}

func TestAuditFailureDoesNotBlockStatusUpdate(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t, status.ShiftDraft, env.today(), "14:00")

	// Force the audit append to fail; the status write must still stick.
	if err := env.db.Migrator().DropTable(&types.ShiftStatusLog{}); err != nil {
		t.Fatalf("drop status log table: %v", err)
	}

	result, err := env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "published", nil)
	if err != nil {
		t.Fatalf("UpdateShiftStatus failed when audit store was down: %v", err)
	}
	if result.NewStatus != status.ShiftPublished {
		t.Fatalf("new status = %s, want published", result.NewStatus)
	}
	if got := env.shiftStatus(t, shift.ID); got != status.ShiftPublished {
		t.Fatalf("stored status = %s, want published", got)
	}
}

func TestGetStatusHistoryNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t, status.ShiftDraft, env.today(), "14:00")

	if _, err := env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "published", nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
	env.clock.Set(env.clock.Now().Add(5 * time.Minute))
	if _, err := env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "accepted", nil); err != nil {
		t.Fatalf("accept: %v", err)
	}

	history, err := env.lifecycle.GetStatusHistory(context.Background(), shift.ID)
	if err != nil {
		t.Fatalf("GetStatusHistory failed: %v", err)
	}
	if history.CurrentStatus != status.ShiftAccepted {
		t.Fatalf("current status = %s, want accepted", history.CurrentStatus)
	}
	if len(history.History) != 2 {
		t.Fatalf("history entries = %d, want 2", len(history.History))
	}
	if history.History[0].ToStatus != status.ShiftAccepted {
		t.Fatalf("newest entry to_status = %s, want accepted", history.History[0].ToStatus)
	}
	if history.History[1].ToStatus != status.ShiftPublished {
		t.Fatalf("oldest entry to_status = %s, want published", history.History[1].ToStatus)
	}

	_, err = env.lifecycle.GetStatusHistory(context.Background(), uuid.New())
	wantCode(t, err, apierr.CodeNotFound)
}

func TestCheckInWindowBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		hour    int
		min     int
		wantOK  bool
		availIn int
	}{
		{name: "31_minutes_early", hour: 13, min: 29, wantOK: false, availIn: 1},
		{name: "30_minutes_early", hour: 13, min: 30, wantOK: true},
		{name: "60_minutes_late", hour: 15, min: 0, wantOK: true},
		{name: "61_minutes_late", hour: 15, min: 1, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			shift := env.createShift(t, status.ShiftAccepted, env.today(), "14:00")
			assignment := env.assign(t, shift.ID)
			env.clock.Set(env.at(tc.hour, tc.min))

			result, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
				ShiftID:   shift.ID,
				WorkerID:  assignment.WorkerID,
				Latitude:  55.751244,
				Longitude: 37.618423,
				PhotoURL:  "https://cdn.example.com/checkin.jpg",
			})

			if !tc.wantOK {
				wantCode(t, err, apierr.CodeOutsideCheckInWindow)
				if tc.availIn > 0 {
					ae := apierr.From(err)
					if ae.Details["available_in_minutes"] != tc.availIn {
						t.Fatalf("available_in_minutes = %v, want %d", ae.Details["available_in_minutes"], tc.availIn)
					}
				}
				if got := env.shiftStatus(t, shift.ID); got != status.ShiftAccepted {
					t.Fatalf("shift status = %s after rejected check-in, want accepted", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("CheckIn failed: %v", err)
			}
			if !result.CheckinTime.Equal(env.clock.Now()) {
				t.Fatalf("checkin time = %v, want %v", result.CheckinTime, env.clock.Now())
			}
			if got := env.shiftStatus(t, shift.ID); got != status.ShiftCheckingIn {
				t.Fatalf("shift status = %s, want checking_in", got)
			}

			reloaded, err := env.workers.GetByShiftAndWorker(context.Background(), nil, shift.ID, assignment.WorkerID)
			if err != nil || reloaded == nil {
				t.Fatalf("reload assignment: %v", err)
			}
			if reloaded.Status != status.AssignmentCheckedIn {
				t.Fatalf("assignment status = %s, want checked_in", reloaded.Status)
			}
			if reloaded.CheckinTime == nil || reloaded.CheckinLat == nil || reloaded.CheckinPhotoURL == "" {
				t.Fatal("check-in fields not persisted")
			}

			entries := env.logEntries(t, shift.ID)
			if len(entries) != 1 {
				t.Fatalf("status log entries = %d, want 1", len(entries))
			}
			if entries[0].FromStatus != status.ShiftAccepted || entries[0].ToStatus != status.ShiftCheckingIn {
				t.Fatalf("log entry = %s → %s, want accepted → checking_in", entries[0].FromStatus, entries[0].ToStatus)
			}
		})
	}
}

func TestCheckInIdempotent(t *testing.T) {
	env := newTestEnv(t)
	shift := env.createShift(t, status.ShiftAccepted, env.today(), "14:00")
	assignment := env.assign(t, shift.ID)
	env.clock.Set(env.at(13, 40))

	first, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
		ShiftID:   shift.ID,
		WorkerID:  assignment.WorkerID,
		Latitude:  55.75,
		Longitude: 37.61,
		PhotoURL:  "https://cdn.example.com/a.jpg",
	})
	if err != nil {
		t.Fatalf("first CheckIn failed: %v", err)
	}

	env.clock.Set(env.at(13, 45))
	_, err = env.lifecycle.CheckIn(context.Background(), CheckInInput{
		ShiftID:   shift.ID,
		WorkerID:  assignment.WorkerID,
		Latitude:  1,
		Longitude: 1,
		PhotoURL:  "https://cdn.example.com/b.jpg",
	})
	wantCode(t, err, apierr.CodeAlreadyCheckedIn)

	reloaded, err := env.workers.GetByShiftAndWorker(context.Background(), nil, shift.ID, assignment.WorkerID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload assignment: %v", err)
	}
	if reloaded.CheckinTime == nil || !reloaded.CheckinTime.Equal(first.CheckinTime) {
		t.Fatalf("original checkin time overwritten: %v", reloaded.CheckinTime)
	}
	if reloaded.CheckinPhotoURL != "https://cdn.example.com/a.jpg" {
		t.Fatalf("original checkin photo overwritten: %q", reloaded.CheckinPhotoURL)
	}
}

func TestCheckInCoordinateValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{name: "latitude_too_high", lat: 91, lng: 0},
		{name: "latitude_too_low", lat: -90.5, lng: 0},
		{name: "longitude_too_high", lat: 0, lng: 180.1},
		{name: "longitude_too_low", lat: 0, lng: -181},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// A random shift id: validation must reject the coordinates
			// before the store is ever consulted, so we never see not_found.
			_, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
				ShiftID:   uuid.New(),
				WorkerID:  uuid.New(),
				Latitude:  tc.lat,
				Longitude: tc.lng,
				PhotoURL:  "https://cdn.example.com/a.jpg",
			})
			wantCode(t, err, apierr.CodeInvalidInput)
		})
	}

	_, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
		ShiftID:   uuid.New(),
		WorkerID:  uuid.New(),
		Latitude:  10,
		Longitude: 10,
		PhotoURL:  "  ",
	})
	wantCode(t, err, apierr.CodeInvalidInput)
}

func TestCheckInGuards(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(env.at(13, 45))

	t.Run("shift_not_found", func(t *testing.T) {
		_, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
			ShiftID:   uuid.New(),
			WorkerID:  uuid.New(),
			Latitude:  10,
			Longitude: 10,
			PhotoURL:  "https://cdn.example.com/a.jpg",
		})
		wantCode(t, err, apierr.CodeNotFound)
	})

	t.Run("wrong_day", func(t *testing.T) {
		tomorrow := env.clock.Now().AddDate(0, 0, 1).Format("2006-01-02")
		shift := env.createShift(t, status.ShiftAccepted, tomorrow, "14:00")
		assignment := env.assign(t, shift.ID)

		_, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
			ShiftID:   shift.ID,
			WorkerID:  assignment.WorkerID,
			Latitude:  10,
			Longitude: 10,
			PhotoURL:  "https://cdn.example.com/a.jpg",
		})
		wantCode(t, err, apierr.CodeWrongDay)
	})

	t.Run("not_assigned", func(t *testing.T) {
		shift := env.createShift(t, status.ShiftAccepted, env.today(), "14:00")

		_, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
			ShiftID:   shift.ID,
			WorkerID:  uuid.New(),
			Latitude:  10,
			Longitude: 10,
			PhotoURL:  "https://cdn.example.com/a.jpg",
		})
		wantCode(t, err, apierr.CodeNotAssigned)
	})
}

// A shift that cannot legally enter checking_in must reject the whole
// check-in, leaving the assignment untouched: the two writes share one
// transaction.
func TestCheckInRollsBackAssignmentOnIllegalTransition(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(env.at(13, 45))
	shift := env.createShift(t, status.ShiftPublished, env.today(), "14:00")
	assignment := env.assign(t, shift.ID)

	_, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
		ShiftID:   shift.ID,
		WorkerID:  assignment.WorkerID,
		Latitude:  10,
		Longitude: 10,
		PhotoURL:  "https://cdn.example.com/a.jpg",
	})
	wantCode(t, err, apierr.CodeInvalidTransition)

	reloaded, rerr := env.workers.GetByShiftAndWorker(context.Background(), nil, shift.ID, assignment.WorkerID)
	if rerr != nil || reloaded == nil {
		t.Fatalf("reload assignment: %v", rerr)
	}
	if reloaded.CheckinTime != nil {
		t.Fatal("assignment marked checked-in although shift transition was rejected")
	}
	if reloaded.Status != status.AssignmentConfirmed {
		t.Fatalf("assignment status = %s, want confirmed", reloaded.Status)
	}
	if got := env.shiftStatus(t, shift.ID); got != status.ShiftPublished {
		t.Fatalf("shift status = %s, want published", got)
	}
	if entries := env.logEntries(t, shift.ID); len(entries) != 0 {
		t.Fatalf("status log entries = %d after rejected check-in, want 0", len(entries))
	}
}

func TestCheckInSecondWorkerWhileCheckingIn(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(env.at(13, 45))
	shift := env.createShift(t, status.ShiftAccepted, env.today(), "14:00")
	first := env.assign(t, shift.ID)
	second := env.assign(t, shift.ID)

	if _, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
		ShiftID:   shift.ID,
		WorkerID:  first.WorkerID,
		Latitude:  10,
		Longitude: 10,
		PhotoURL:  "https://cdn.example.com/a.jpg",
	}); err != nil {
		t.Fatalf("first worker CheckIn failed: %v", err)
	}

	// Shift is already checking_in; the second worker's check-in must not
	// attempt (and fail) a checking_in → checking_in transition.
	if _, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
		ShiftID:   shift.ID,
		WorkerID:  second.WorkerID,
		Latitude:  10,
		Longitude: 10,
		PhotoURL:  "https://cdn.example.com/b.jpg",
	}); err != nil {
		t.Fatalf("second worker CheckIn failed: %v", err)
	}

	if got := env.shiftStatus(t, shift.ID); got != status.ShiftCheckingIn {
		t.Fatalf("shift status = %s, want checking_in", got)
	}
	if entries := env.logEntries(t, shift.ID); len(entries) != 1 {
		t.Fatalf("status log entries = %d, want 1 (only the first check-in transitions)", len(entries))
	}
	if env.notifier.checkins != 2 {
		t.Fatalf("check-in notifications = %d, want 2", env.notifier.checkins)
	}
}

func TestCheckOutLastWorkerCompletesShift(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(env.at(13, 45))
	shift := env.createShift(t, status.ShiftAccepted, env.today(), "14:00")
	first := env.assign(t, shift.ID)
	second := env.assign(t, shift.ID)

	for _, asn := range []*types.ShiftWorker{first, second} {
		if _, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
			ShiftID:   shift.ID,
			WorkerID:  asn.WorkerID,
			Latitude:  10,
			Longitude: 10,
			PhotoURL:  "https://cdn.example.com/a.jpg",
		}); err != nil {
			t.Fatalf("CheckIn failed: %v", err)
		}
	}
	if _, err := env.lifecycle.UpdateShiftStatus(context.Background(), shift.ID, "in_progress", nil); err != nil {
		t.Fatalf("move to in_progress: %v", err)
	}

	env.clock.Set(env.at(22, 5))
	out1, err := env.lifecycle.CheckOut(context.Background(), shift.ID, first.WorkerID)
	if err != nil {
		t.Fatalf("first CheckOut failed: %v", err)
	}
	if out1.ShiftCompleted {
		t.Fatal("shift completed while a worker is still checked in")
	}
	if got := env.shiftStatus(t, shift.ID); got != status.ShiftInProgress {
		t.Fatalf("shift status = %s, want in_progress", got)
	}

	out2, err := env.lifecycle.CheckOut(context.Background(), shift.ID, second.WorkerID)
	if err != nil {
		t.Fatalf("second CheckOut failed: %v", err)
	}
	if !out2.ShiftCompleted {
		t.Fatal("last check-out did not complete the shift")
	}
	if got := env.shiftStatus(t, shift.ID); got != status.ShiftCompleted {
		t.Fatalf("shift status = %s, want completed", got)
	}

	entries := env.logEntries(t, shift.ID)
	if len(entries) == 0 || entries[0].ToStatus != status.ShiftCompleted {
		t.Fatalf("newest log entry = %+v, want transition to completed", entries)
	}
	if env.notifier.checkouts != 2 {
		t.Fatalf("check-out notifications = %d, want 2", env.notifier.checkouts)
	}
}

func TestCheckOutGuards(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(env.at(13, 45))
	shift := env.createShift(t, status.ShiftAccepted, env.today(), "14:00")
	assignment := env.assign(t, shift.ID)

	_, err := env.lifecycle.CheckOut(context.Background(), shift.ID, uuid.New())
	wantCode(t, err, apierr.CodeNotAssigned)

	_, err = env.lifecycle.CheckOut(context.Background(), shift.ID, assignment.WorkerID)
	wantCode(t, err, apierr.CodeNotCheckedIn)

	if _, err := env.lifecycle.CheckIn(context.Background(), CheckInInput{
		ShiftID:   shift.ID,
		WorkerID:  assignment.WorkerID,
		Latitude:  10,
		Longitude: 10,
		PhotoURL:  "https://cdn.example.com/a.jpg",
	}); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	if _, err := env.lifecycle.CheckOut(context.Background(), shift.ID, assignment.WorkerID); err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}
	_, err = env.lifecycle.CheckOut(context.Background(), shift.ID, assignment.WorkerID)
	wantCode(t, err, apierr.CodeAlreadyCheckedOut)
}
