package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	bookingserrors "festas/internal/bookings/errors"
	"festas/internal/bookings/validator"
	"festas/pkg/config"
	mongotx "festas/pkg/db/mongo"
	apperrors "festas/pkg/errors"
	"festas/pkg/events"
	"festas/pkg/logger"
	"festas/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mock repositories for testing
type mockBookingRepository struct {
	insertFunc            func(ctx context.Context, booking *model.Booking) error
	findByIDFunc          func(ctx context.Context, id string) (*model.Booking, error)
	findByAreaAndDateFunc func(ctx context.Context, areaID, date string) ([]*model.Booking, error)
	findByCreatorFunc     func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error)
	countByCreatorFunc    func(ctx context.Context, userID string) (int64, error)
	updateStatusFunc      func(ctx context.Context, id, status string) error
	deleteFunc            func(ctx context.Context, id string) error
}

func (m *mockBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByAreaAndDate(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
	if m.findByAreaAndDateFunc != nil {
		return m.findByAreaAndDateFunc(ctx, areaID, date)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByCreator(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByCreatorFunc != nil {
		return m.findByCreatorFunc(ctx, userID, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByCreator(ctx context.Context, userID string) (int64, error) {
	if m.countByCreatorFunc != nil {
		return m.countByCreatorFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockSlotLockRepository struct {
	createFunc func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error)
	findFunc   func(ctx context.Context, lockID string) (*model.SlotLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockSlotLockRepository) Find(ctx context.Context, lockID string) (*model.SlotLock, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, lockID)
	}
	return nil, bookingserrors.ErrLockNotFound
}

func (m *mockSlotLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockAreaLookup struct {
	getFunc func(ctx context.Context, id string) (*model.Area, error)
}

func (m *mockAreaLookup) Get(ctx context.Context, id string) (*model.Area, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	if id == "salon" {
		return &model.Area{ID: "salon", Name: "Salão de Festas"}, nil
	}
	return nil, apperrors.NotFoundWithID("Area", id)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		WriteTimeout: 5 * time.Second,
		ReadTimeout:  5 * time.Second,
	}
}

func newTestService(repo *mockBookingRepository, locks *mockSlotLockRepository) *bookingService {
	cfg := testConfig()
	return &bookingService{
		repo:      repo,
		lockRepo:  locks,
		areas:     &mockAreaLookup{},
		validator: validator.NewBookingValidator(cfg.Log),
		publisher: events.NewNoopPublisher(),
		cfg:       cfg,
	}
}

func validDraft() *model.BookingDraft {
	return &model.BookingDraft{
		AreaID:        "salon",
		Date:          "2024-05-10",
		Start:         "14:00",
		End:           "18:00",
		Unit:          "101",
		Requester:     "Maria Silva",
		Contact:       "+55 11 99999-0000",
		RulesAccepted: true,
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"identical intervals", 840, 1080, 840, 1080, true},
		{"contained interval", 840, 1080, 900, 960, true},
		{"partial overlap at end", 840, 1080, 1020, 1140, true},
		{"partial overlap at start", 840, 1080, 780, 900, true},
		{"touching at boundary does not overlap", 840, 1080, 1080, 1200, false},
		{"touching at boundary reversed", 1080, 1200, 840, 1080, false},
		{"disjoint before", 840, 1080, 600, 720, false},
		{"disjoint after", 840, 1080, 1140, 1260, false},
		{"one minute overlap", 840, 1080, 1079, 1081, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			if got != tt.want {
				t.Errorf("overlaps(%d, %d, %d, %d) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
			// The relation is symmetric.
			if overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd) != got {
				t.Errorf("overlaps is not symmetric for (%d, %d) vs (%d, %d)",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			}
		})
	}
}

func TestFindConflicts(t *testing.T) {
	stored := []*model.Booking{
		{ID: "1", AreaID: "salon", Date: "2024-05-10", Start: "14:00", End: "18:00", Status: model.StatusActive},
		{ID: "2", AreaID: "salon", Date: "2024-05-10", Start: "19:00", End: "22:00", Status: model.StatusCancelled},
	}

	repo := &mockBookingRepository{
		findByAreaAndDateFunc: func(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
			return stored, nil
		},
	}
	svc := newTestService(repo, &mockSlotLockRepository{})

	tests := []struct {
		name       string
		start, end string
		wantIDs    []string
	}{
		{"free slot after active booking", "18:00", "20:00", nil},
		{"overlapping the active booking", "17:59", "18:01", []string{"1"}},
		{"inside the active booking", "15:00", "16:00", []string{"1"}},
		{"cancelled booking never conflicts", "19:00", "22:00", nil},
		{"free morning slot", "08:00", "10:00", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts, err := svc.FindConflicts(context.Background(), "salon", "2024-05-10", tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(conflicts) != len(tt.wantIDs) {
				t.Fatalf("expected %d conflicts, got %d", len(tt.wantIDs), len(conflicts))
			}
			for i, id := range tt.wantIDs {
				if conflicts[i].ID != id {
					t.Errorf("conflict %d: expected ID %s, got %s", i, id, conflicts[i].ID)
				}
			}
		})
	}
}

func TestFindConflicts_InvalidInput(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockSlotLockRepository{})

	tests := []struct {
		name                     string
		areaID, date, start, end string
	}{
		{"missing area", "", "2024-05-10", "14:00", "18:00"},
		{"bad date", "salon", "10/05/2024", "14:00", "18:00"},
		{"bad start time", "salon", "2024-05-10", "25:00", "18:00"},
		{"end before start", "salon", "2024-05-10", "18:00", "14:00"},
		{"zero length interval", "salon", "2024-05-10", "14:00", "14:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FindConflicts(context.Background(), tt.areaID, tt.date, tt.start, tt.end)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
				t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
			}
		})
	}
}

func TestFindConflicts_SkipsMalformedRecords(t *testing.T) {
	repo := &mockBookingRepository{
		findByAreaAndDateFunc: func(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "bad", AreaID: "salon", Date: "2024-05-10", Start: "garbage", End: "18:00", Status: model.StatusActive},
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotLockRepository{})

	conflicts, err := svc.FindConflicts(context.Background(), "salon", "2024-05-10", "08:00", "20:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected malformed record to be skipped, got %d conflicts", len(conflicts))
	}
}

func TestCreate_Success(t *testing.T) {
	var inserted *model.Booking
	repo := &mockBookingRepository{
		insertFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "507f1f77bcf86cd799439011"
			booking.CreatedAt = time.Now().UTC()
			inserted = booking
			return nil
		},
	}
	var lockCreated, lockReleased string
	locks := &mockSlotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			lockCreated = lock.ID
			return lock, nil
		},
		deleteFunc: func(ctx context.Context, lockID string) error {
			lockReleased = lockID
			return nil
		},
	}
	svc := newTestService(repo, locks)

	user := &model.User{ID: "user-1"}
	booking, err := svc.Create(context.Background(), validDraft(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted == nil {
		t.Fatal("expected booking to be inserted")
	}
	if booking.Status != model.StatusActive {
		t.Errorf("expected status %s, got %s", model.StatusActive, booking.Status)
	}
	if booking.CreatedBy != "user-1" {
		t.Errorf("expected created_by user-1, got %s", booking.CreatedBy)
	}
	if booking.AreaName != "Salão de Festas" {
		t.Errorf("expected resolved area name, got %q", booking.AreaName)
	}
	if booking.CreatedAt.IsZero() {
		t.Error("expected created_at to be set by the store")
	}
	if lockCreated != "slot_lock_salon_2024-05-10" {
		t.Errorf("unexpected lock ID: %s", lockCreated)
	}
	if lockReleased != lockCreated {
		t.Errorf("lock %s acquired but %s released", lockCreated, lockReleased)
	}
}

func TestCreate_ConflictRejected(t *testing.T) {
	inserted := false
	repo := &mockBookingRepository{
		findByAreaAndDateFunc: func(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "1", Start: "14:00", End: "18:00", Status: model.StatusActive},
			}, nil
		},
		insertFunc: func(ctx context.Context, booking *model.Booking) error {
			inserted = true
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotLockRepository{})

	draft := validDraft()
	draft.Start = "17:00"
	draft.End = "19:00"
	_, err := svc.Create(context.Background(), draft, &model.User{ID: "user-1"})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
	if inserted {
		t.Error("conflicting booking must not be inserted")
	}
}

func TestCreate_BoundaryDoesNotConflict(t *testing.T) {
	repo := &mockBookingRepository{
		findByAreaAndDateFunc: func(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "1", Start: "14:00", End: "18:00", Status: model.StatusActive},
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotLockRepository{})

	draft := validDraft()
	draft.Start = "18:00"
	draft.End = "20:00"
	if _, err := svc.Create(context.Background(), draft, &model.User{ID: "user-1"}); err != nil {
		t.Fatalf("back-to-back booking should succeed, got: %v", err)
	}
}

func TestCreate_SlotLockContention(t *testing.T) {
	locks := &mockSlotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
		findFunc: func(ctx context.Context, lockID string) (*model.SlotLock, error) {
			// The other request is still inside its create window.
			return &model.SlotLock{ID: lockID, ExpiresAt: time.Now().Add(5 * time.Second)}, nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, locks)

	_, err := svc.Create(context.Background(), validDraft(), &model.User{ID: "user-1"})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_ReleasesLockWhenRequestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &mockBookingRepository{
		insertFunc: func(insertCtx context.Context, booking *model.Booking) error {
			// The client goes away mid-insert.
			cancel()
			return insertCtx.Err()
		},
	}
	var released string
	locks := &mockSlotLockRepository{
		deleteFunc: func(delCtx context.Context, lockID string) error {
			if err := delCtx.Err(); err != nil {
				return err
			}
			released = lockID
			return nil
		},
	}
	svc := newTestService(repo, locks)

	if _, err := svc.Create(ctx, validDraft(), &model.User{ID: "user-1"}); err == nil {
		t.Fatal("expected the cancelled create to fail")
	}
	if released != "slot_lock_salon_2024-05-10" {
		t.Errorf("lock must be released even after the request context is cancelled, released=%q", released)
	}
}

func TestCreate_ReclaimsExpiredLock(t *testing.T) {
	held := true
	attempts := 0
	locks := &mockSlotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			attempts++
			if held {
				return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
			}
			return lock, nil
		},
		findFunc: func(ctx context.Context, lockID string) (*model.SlotLock, error) {
			// Left behind by a create that died without releasing.
			return &model.SlotLock{ID: lockID, ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFunc: func(ctx context.Context, lockID string) error {
			held = false
			return nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, locks)

	booking, err := svc.Create(context.Background(), validDraft(), &model.User{ID: "user-2"})
	if err != nil {
		t.Fatalf("create must succeed once the expired lock is reclaimed, got: %v", err)
	}
	if booking.Status != model.StatusActive {
		t.Errorf("expected status %s, got %s", model.StatusActive, booking.Status)
	}
	if attempts != 2 {
		t.Errorf("expected a second acquire attempt after reclaiming, got %d", attempts)
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockSlotLockRepository{})
	user := &model.User{ID: "user-1"}

	tests := []struct {
		name   string
		mutate func(d *model.BookingDraft)
	}{
		{"consent not given", func(d *model.BookingDraft) { d.RulesAccepted = false }},
		{"end before start", func(d *model.BookingDraft) { d.Start, d.End = "18:00", "14:00" }},
		{"missing requester", func(d *model.BookingDraft) { d.Requester = "" }},
		{"bad time format", func(d *model.BookingDraft) { d.Start = "2pm" }},
		{"bad date format", func(d *model.BookingDraft) { d.Date = "May 10" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)
			_, err := svc.Create(context.Background(), draft, user)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
				t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
			}
		})
	}
}

func TestCreate_UnknownArea(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockSlotLockRepository{})

	draft := validDraft()
	draft.AreaID = "rooftop"
	_, err := svc.Create(context.Background(), draft, &model.User{ID: "user-1"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestCreate_RequiresUser(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockSlotLockRepository{})

	_, err := svc.Create(context.Background(), validDraft(), nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUnauthorized {
		t.Errorf("expected code %s, got %s", apperrors.CodeUnauthorized, appErr.Code)
	}
}

func TestCancel(t *testing.T) {
	owned := &model.Booking{
		ID:        "507f1f77bcf86cd799439011",
		AreaID:    "salon",
		Date:      "2024-05-10",
		Start:     "14:00",
		End:       "18:00",
		Status:    model.StatusActive,
		CreatedBy: "user-1",
	}

	tests := []struct {
		name     string
		user     *model.User
		findErr  error
		wantCode string
	}{
		{"owner can cancel", &model.User{ID: "user-1"}, nil, ""},
		{"non-owner is forbidden", &model.User{ID: "user-2"}, nil, apperrors.CodeForbidden},
		{"missing booking", &model.User{ID: "user-1"}, bookingserrors.ErrNotFound, apperrors.CodeNotFound},
		{"malformed id", &model.User{ID: "user-1"}, bookingserrors.ErrInvalidID, apperrors.CodeInvalidInput},
		{"anonymous is unauthorized", nil, nil, apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updatedStatus string
			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					b := *owned
					return &b, nil
				},
				updateStatusFunc: func(ctx context.Context, id, status string) error {
					updatedStatus = status
					return nil
				},
			}
			svc := newTestService(repo, &mockSlotLockRepository{})

			err := svc.Cancel(context.Background(), owned.ID, tt.user)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if updatedStatus != model.StatusCancelled {
					t.Errorf("expected status update to %s, got %q", model.StatusCancelled, updatedStatus)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
			if updatedStatus != "" {
				t.Error("status must not change when the operation is rejected")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	owned := &model.Booking{
		ID:        "507f1f77bcf86cd799439011",
		CreatedBy: "user-1",
		Start:     "14:00",
		End:       "18:00",
	}

	var deletedID string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			b := *owned
			return &b, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotLockRepository{})

	if err := svc.Delete(context.Background(), owned.ID, &model.User{ID: "user-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != owned.ID {
		t.Errorf("expected deletion of %s, got %s", owned.ID, deletedID)
	}

	err := svc.Delete(context.Background(), owned.ID, &model.User{ID: "user-2"})
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected code %s, got %s", apperrors.CodeForbidden, appErr.Code)
	}
}

func TestAgenda(t *testing.T) {
	repo := &mockBookingRepository{
		findByAreaAndDateFunc: func(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "1", Start: "09:00", End: "11:00", Status: model.StatusActive},
				{ID: "2", Start: "14:00", End: "18:00", Status: model.StatusCancelled},
			}, nil
		},
	}
	svc := newTestService(repo, &mockSlotLockRepository{})

	// The agenda includes cancelled records; the caller decides presentation.
	bookings, err := svc.Agenda(context.Background(), "salon", "2024-05-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 {
		t.Errorf("expected 2 bookings, got %d", len(bookings))
	}

	if _, err := svc.Agenda(context.Background(), "", "2024-05-10"); err == nil {
		t.Error("expected error for missing area")
	}
	if _, err := svc.Agenda(context.Background(), "salon", "not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestMine(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	repo := &mockBookingRepository{
		findByCreatorFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
			if userID != "user-1" {
				return nil, errors.New("unexpected user")
			}
			gotLimit, gotOffset = limit, offset
			return []*model.Booking{{ID: "1", CreatedBy: "user-1"}}, nil
		},
		countByCreatorFunc: func(ctx context.Context, userID string) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(repo, &mockSlotLockRepository{})

	bookings, count, err := svc.Mine(context.Background(), &model.User{ID: "user-1"}, 0, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking, got %d", len(bookings))
	}
	if count != 7 {
		t.Errorf("expected count 7, got %d", count)
	}
	if gotLimit != 10 || gotOffset != 0 {
		t.Errorf("expected normalized limit 10 and offset 0, got %d and %d", gotLimit, gotOffset)
	}

	if _, _, err := svc.Mine(context.Background(), nil, 10, 0); err == nil {
		t.Error("expected error for anonymous caller")
	}
}

// newStatefulRepository returns a mock backed by an in-memory store so a test
// can run a whole booking lifecycle through the service.
func newStatefulRepository() *mockBookingRepository {
	store := map[string]*model.Booking{}
	nextID := 0

	return &mockBookingRepository{
		insertFunc: func(ctx context.Context, booking *model.Booking) error {
			nextID++
			booking.ID = fmt.Sprintf("booking-%d", nextID)
			booking.CreatedAt = time.Now().UTC()
			stored := *booking
			store[booking.ID] = &stored
			return nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			b, ok := store[id]
			if !ok {
				return nil, bookingserrors.ErrNotFound
			}
			found := *b
			return &found, nil
		},
		findByAreaAndDateFunc: func(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
			var out []*model.Booking
			for _, b := range store {
				if b.AreaID == areaID && b.Date == date {
					found := *b
					out = append(out, &found)
				}
			}
			return out, nil
		},
		updateStatusFunc: func(ctx context.Context, id, status string) error {
			b, ok := store[id]
			if !ok {
				return bookingserrors.ErrNotFound
			}
			b.Status = status
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			if _, ok := store[id]; !ok {
				return bookingserrors.ErrNotFound
			}
			delete(store, id)
			return nil
		},
	}
}

func TestBookingLifecycle(t *testing.T) {
	svc := newTestService(newStatefulRepository(), &mockSlotLockRepository{})
	ctx := context.Background()

	maria := &model.User{ID: "user-1"}
	bruno := &model.User{ID: "user-2"}

	// Maria takes the afternoon.
	first, err := svc.Create(ctx, validDraft(), maria)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Bruno's overlapping request is rejected.
	second := validDraft()
	second.Start = "17:00"
	second.End = "19:00"
	second.Unit = "202"
	second.Requester = "Bruno Costa"
	_, err = svc.Create(ctx, second, bruno)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}

	// Bruno cannot free the slot by cancelling Maria's booking.
	err = svc.Cancel(ctx, first.ID, bruno)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected code %s, got %s", apperrors.CodeForbidden, appErr.Code)
	}

	// Maria cancels, which frees the interval.
	if err := svc.Cancel(ctx, first.ID, maria); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Bruno's retry now succeeds.
	booked, err := svc.Create(ctx, second, bruno)
	if err != nil {
		t.Fatalf("retry after cancellation must succeed, got: %v", err)
	}
	if booked.CreatedBy != bruno.ID {
		t.Errorf("expected created_by %s, got %s", bruno.ID, booked.CreatedBy)
	}

	// The agenda keeps the cancelled record alongside the new one.
	agenda, err := svc.Agenda(ctx, "salon", "2024-05-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(agenda) != 2 {
		t.Errorf("expected 2 agenda entries, got %d", len(agenda))
	}
}
