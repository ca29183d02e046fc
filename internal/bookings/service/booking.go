package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "festas/internal/bookings/errors"
	"festas/internal/bookings/repository"
	"festas/internal/bookings/validator"
	"festas/pkg/config"
	apperrors "festas/pkg/errors"
	"festas/pkg/events"
	"festas/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	// FindConflicts returns every active booking for the area and date whose
	// [start, end) interval overlaps the given one. An empty result means the
	// interval is free.
	FindConflicts(ctx context.Context, areaID, date, start, end string) ([]*model.Booking, error)
	Create(ctx context.Context, draft *model.BookingDraft, user *model.User) (*model.Booking, error)
	Cancel(ctx context.Context, id string, user *model.User) error
	Delete(ctx context.Context, id string, user *model.User) error
	Agenda(ctx context.Context, areaID, date string) ([]*model.Booking, error)
	Mine(ctx context.Context, user *model.User, limit int, offset int64) ([]*model.Booking, int64, error)
}

// AreaLookup resolves bookable areas. Implemented by the areas service.
type AreaLookup interface {
	Get(ctx context.Context, id string) (*model.Area, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	areas     AreaLookup
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	areas AreaLookup,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		areas:     areas,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) FindConflicts(ctx context.Context, areaID, date, start, end string) ([]*model.Booking, error) {
	if err := s.validator.ValidateInterval(areaID, date, start, end); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	startMin, _ := model.MinutesOfDay(start)
	endMin, _ := model.MinutesOfDay(end)

	return s.conflictsFor(ctx, areaID, date, startMin, endMin)
}

func (s *bookingService) Create(ctx context.Context, draft *model.BookingDraft, user *model.User) (*model.Booking, error) {
	if user == nil {
		return nil, apperrors.Unauthorized("Sign in to create a booking")
	}

	if err := s.validator.ValidateDraft(draft); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	area, err := s.areas.Get(ctx, draft.AreaID)
	if err != nil {
		if apperrors.AsAppError(err).Code == apperrors.CodeNotFound {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown area: %s", draft.AreaID))
		}
		return nil, apperrors.Internal("Failed to resolve area", err)
	}

	// Safe after ValidateDraft.
	startMin, _ := model.MinutesOfDay(draft.Start)
	endMin, _ := model.MinutesOfDay(draft.End)

	booking := &model.Booking{
		AreaID:    area.ID,
		AreaName:  area.Name,
		Date:      draft.Date,
		Start:     draft.Start,
		End:       draft.End,
		Unit:      draft.Unit,
		Requester: draft.Requester,
		Contact:   draft.Contact,
		Notes:     draft.Notes,
		Status:    model.StatusActive,
		CreatedBy: user.ID,
	}

	// The advisory lock serializes concurrent creations for the same
	// area+date; the conflict re-check inside the transaction then sees any
	// booking a concurrent request committed first. Without the lock this
	// degrades to the best-effort check-then-write the store allows.
	lockID, err := s.acquireSlotLock(ctx, draft.AreaID, draft.Date)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Detached from the request context: the lock must be released even
		// when the request was cancelled or timed out mid-create.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), slotLockTTL)
		defer cancel()
		if releaseErr := s.releaseSlotLock(releaseCtx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		conflicts, err := s.conflictsFor(sessCtx, draft.AreaID, draft.Date, startMin, endMin)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.Conflict("The requested interval overlaps an existing reservation").
				WithDetails(map[string]any{"conflicts": conflictSummaries(conflicts)})
		}
		if err := s.repo.Insert(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"area_id", draft.AreaID,
			"date", draft.Date,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"area_id", booking.AreaID,
		"date", booking.Date,
		"start", booking.Start,
		"end", booking.End,
		"created_by", booking.CreatedBy,
	)
	s.publish(ctx, events.TypeBookingCreated, booking)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, user *model.User) error {
	booking, err := s.loadOwned(ctx, id, user)
	if err != nil {
		return err
	}

	// Cancelling keeps the record as an audit trail; only status changes.
	if err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "cancelled_by", user.ID)
	booking.Status = model.StatusCancelled
	s.publish(ctx, events.TypeBookingCancelled, booking)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, id string, user *model.User) error {
	booking, err := s.loadOwned(ctx, id, user)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted", "id", id, "deleted_by", user.ID)
	s.publish(ctx, events.TypeBookingDeleted, booking)
	return nil
}

func (s *bookingService) Agenda(ctx context.Context, areaID, date string) ([]*model.Booking, error) {
	if areaID == "" {
		return nil, apperrors.InvalidInput("area_id is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.InvalidInput("date must be YYYY-MM-DD")
	}

	bookings, err := s.repo.FindByAreaAndDate(ctx, areaID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load agenda", "area_id", areaID, "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Mine(ctx context.Context, user *model.User, limit int, offset int64) ([]*model.Booking, int64, error) {
	if user == nil {
		return nil, 0, apperrors.Unauthorized("Sign in to list your bookings")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	// Shared deadline so neither query outlives the other.
	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByCreator(sharedCtx, user.ID)
		if err != nil {
			s.cfg.Log.Error("Failed to count user bookings", "user_id", user.ID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByCreator(sharedCtx, user.ID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to load user bookings",
				"user_id", user.ID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

// --- Helpers ---

// conflictsFor applies the overlap rule against everything stored for the
// area+date. Cancelled bookings never conflict; records whose time fields no
// longer parse are skipped rather than trusted.
func (s *bookingService) conflictsFor(ctx context.Context, areaID, date string, start, end int) ([]*model.Booking, error) {
	existing, err := s.repo.FindByAreaAndDate(ctx, areaID, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}

	var conflicts []*model.Booking
	for _, b := range existing {
		if b.Status == model.StatusCancelled {
			continue
		}
		bStart, bEnd, err := b.Interval()
		if err != nil {
			s.cfg.Log.Warn("Skipping malformed booking record in conflict check",
				"booking_id", b.ID,
				"error", err,
			)
			continue
		}
		if overlaps(start, end, bStart, bEnd) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

// overlaps reports whether the half-open minute intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

func conflictSummaries(conflicts []*model.Booking) []string {
	summaries := make([]string, 0, len(conflicts))
	for _, b := range conflicts {
		summaries = append(summaries, fmt.Sprintf("%s-%s", b.Start, b.End))
	}
	return summaries
}

func (s *bookingService) loadOwned(ctx context.Context, id string, user *model.User) (*model.Booking, error) {
	if user == nil {
		return nil, apperrors.Unauthorized("Sign in to modify a booking")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.CreatedBy != user.ID {
		return nil, apperrors.Forbidden("Only the booking owner may modify it")
	}
	return booking, nil
}

// slotLockTTL bounds how long a crashed create can hold an area+date hostage.
const slotLockTTL = 10 * time.Second

func (s *bookingService) acquireSlotLock(ctx context.Context, areaID, date string) (string, error) {
	lockID := fmt.Sprintf("slot_lock_%s_%s", areaID, date)

	for attempt := 0; attempt < 2; attempt++ {
		lock := &model.SlotLock{
			ID:        lockID,
			ExpiresAt: time.Now().Add(slotLockTTL),
		}

		_, err := s.lockRepo.Create(ctx, lock)
		if err == nil {
			return lockID, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Internal("Failed to acquire slot lock", err)
		}

		holder, findErr := s.lockRepo.Find(ctx, lockID)
		if findErr != nil {
			if errors.Is(findErr, bookingserrors.ErrLockNotFound) {
				// Holder released between our insert and lookup; retry.
				continue
			}
			return "", apperrors.Internal("Failed to inspect slot lock", findErr)
		}
		if time.Now().Before(holder.ExpiresAt) {
			break
		}

		// The holder is past its expiry: a previous create died without
		// releasing. Reclaim the slot and retry once.
		s.cfg.Log.Warn("Removing stale slot lock", "lock_id", lockID, "expired_at", holder.ExpiresAt)
		if delErr := s.lockRepo.Delete(ctx, lockID); delErr != nil {
			return "", apperrors.Internal("Failed to remove stale slot lock", delErr)
		}
	}

	return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := events.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		AreaID:    booking.AreaID,
		Date:      booking.Date,
		Start:     booking.Start,
		End:       booking.End,
		UserID:    booking.CreatedBy,
		At:        time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Eventing is a notification path; the booking operation already
		// succeeded, so the failure is logged and swallowed.
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
