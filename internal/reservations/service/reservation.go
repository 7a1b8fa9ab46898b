package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/internal/reservations/events"
	"slotbook/internal/reservations/repository"
	"slotbook/internal/reservations/validator"
	"slotbook/pkg/auth"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"
	"slotbook/pkg/slots"
)

// ReservationService books device time on a single-day grid. Every mutation
// reloads the store, revalidates against the fresh snapshot, saves the whole
// collection and reloads again before answering. Two writers that save
// between each other's reload and save still race; the last save wins.
type ReservationService interface {
	Create(ctx context.Context, session auth.Session, input *model.ReservationInput) (*model.Reservation, error)
	Edit(ctx context.Context, session auth.Session, id string, update *model.ReservationUpdate) (*model.Reservation, error)
	Cancel(ctx context.Context, session auth.Session, id string) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	ListByDate(ctx context.Context, date model.Date) ([]*model.Reservation, error)
	Availability(ctx context.Context, date model.Date) (*model.Availability, error)
}

type reservationService struct {
	store     repository.Store
	validator *validator.ReservationValidator
	grid      *slots.Grid
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewReservationService(
	store repository.Store,
	validator *validator.ReservationValidator,
	grid *slots.Grid,
	publisher events.Publisher,
	log *logger.Logger,
) ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &reservationService{
		store:     store,
		validator: validator,
		grid:      grid,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *reservationService) Create(ctx context.Context, session auth.Session, input *model.ReservationInput) (*model.Reservation, error) {
	if err := requireAdmin(session, "create reservations"); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, apperrors.InvalidInput("Reservation input is required")
	}

	input.Owner = sanitizer.SanitizeOwner(input.Owner)
	if err := s.validate(s.validator.ValidateInput(input)); err != nil {
		return nil, err
	}

	date, _ := model.ParseDate(input.Date)
	start, _ := model.ParseClock(input.Start)
	end, err := s.placement(start, input.UnitCount)
	if err != nil {
		return nil, err
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	candidate := slots.Interval{Start: start, End: end}
	if err := checkConflicts(candidate, snap.ForDate(date), ""); err != nil {
		s.log.Info("Reservation rejected, slot taken", "date", date, "start", start.String(), "end", end.String())
		return nil, err
	}

	now := s.now()
	id := snap.Append(&model.Reservation{
		Date:      date,
		Start:     start,
		End:       end,
		Owner:     input.Owner,
		UnitCount: input.UnitCount,
		CreatedAt: now,
		UpdatedAt: now,
	})

	created, err := s.commit(ctx, snap, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("Reservation created successfully",
		"id", created.ID,
		"date", created.Date,
		"start", created.Start.String(),
		"end", created.End.String(),
		"unit_count", created.UnitCount,
		"actor", session.Username,
	)
	s.publish(ctx, model.EventReservationCreated, created, session)
	return created, nil
}

func (s *reservationService) Edit(ctx context.Context, session auth.Session, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
	if err := requireAdmin(session, "edit reservations"); err != nil {
		return nil, err
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	existing, ok := snap.Find(id)
	if !ok {
		return nil, apperrors.NotFoundWithID("Reservation", id)
	}

	if update == nil {
		return nil, apperrors.InvalidInput("Reservation update is required")
	}
	if update.Owner != nil {
		owner := sanitizer.SanitizeOwner(*update.Owner)
		update.Owner = &owner
	}
	if err := s.validate(s.validator.ValidateUpdate(update)); err != nil {
		return nil, err
	}

	merged := mergeReservationUpdate(existing, update)
	merged.End, err = s.placement(merged.Start, merged.UnitCount)
	if err != nil {
		return nil, err
	}

	candidate := slots.Interval{Start: merged.Start, End: merged.End}
	if err := checkConflicts(candidate, snap.ForDate(merged.Date), merged.ID); err != nil {
		s.log.Info("Reservation edit rejected, slot taken", "id", id, "start", merged.Start.String(), "end", merged.End.String())
		return nil, err
	}

	merged.UpdatedAt = s.now()
	if err := snap.Replace(merged); err != nil {
		return nil, apperrors.NotFoundWithID("Reservation", id)
	}

	edited, err := s.commit(ctx, snap, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("Reservation edited successfully",
		"id", edited.ID,
		"date", edited.Date,
		"start", edited.Start.String(),
		"end", edited.End.String(),
		"unit_count", edited.UnitCount,
		"actor", session.Username,
	)
	s.publish(ctx, model.EventReservationEdited, edited, session)
	return edited, nil
}

func (s *reservationService) Cancel(ctx context.Context, session auth.Session, id string) error {
	if err := requireAdmin(session, "cancel reservations"); err != nil {
		return err
	}

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	existing, ok := snap.Find(id)
	if !ok {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	cancelled := existing.Clone()

	if err := snap.Remove(id); err != nil {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	if err := s.save(ctx, snap); err != nil {
		return err
	}

	fresh, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, stillThere := fresh.Find(id); stillThere {
		return apperrors.StoreUnavailable("Reservation still present after cancellation", nil)
	}

	s.log.Info("Reservation cancelled successfully",
		"id", id,
		"date", cancelled.Date,
		"start", cancelled.Start.String(),
		"actor", session.Username,
	)
	s.publish(ctx, model.EventReservationCancelled, cancelled, session)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := snap.Find(id)
	if !ok {
		return nil, apperrors.NotFoundWithID("Reservation", id)
	}
	return r, nil
}

func (s *reservationService) ListByDate(ctx context.Context, date model.Date) ([]*model.Reservation, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	scope := snap.ForDate(date)
	s.log.Debug("Listed reservations", "date", date, "count", len(scope))
	return scope, nil
}

func (s *reservationService) Availability(ctx context.Context, date model.Date) (*model.Availability, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	scope := snap.ForDate(date)
	return &model.Availability{
		Date:         date,
		Slots:        s.grid.Slots(),
		Available:    slots.AvailableStarts(s.grid, intervals(scope)),
		Reservations: scope,
	}, nil
}

// --- Helpers ---

func requireAdmin(session auth.Session, action string) error {
	if !session.IsAdmin() {
		return apperrors.Forbidden(fmt.Sprintf("Only administrators may %s", action))
	}
	return nil
}

func (s *reservationService) validate(err error) error {
	if err == nil {
		return nil
	}
	s.log.Warn("Reservation validation failed", "error", err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.InvalidInput("Reservation input is invalid").WithDetails(verrs.Details())
	}
	return apperrors.InvalidInput(err.Error())
}

// placement checks that start is a grid slot and computes where a
// reservation of unitCount units would end.
func (s *reservationService) placement(start model.Clock, unitCount int) (model.Clock, error) {
	if !s.grid.Contains(start) {
		return 0, apperrors.SlotNotOnGrid(start.String())
	}

	end, err := slots.ComputeEnd(start, unitCount, s.grid.Unit())
	if err != nil {
		return 0, apperrors.InvalidInput(err.Error())
	}
	if end > model.EndOfDay {
		return 0, apperrors.InvalidInput(fmt.Sprintf("Reservation starting at %s with %d units would end after midnight", start, unitCount))
	}
	return end, nil
}

func checkConflicts(candidate slots.Interval, scope []*model.Reservation, excludeID string) error {
	others := make([]*model.Reservation, 0, len(scope))
	for _, r := range scope {
		if r.ID != excludeID {
			others = append(others, r)
		}
	}

	idx := slots.Conflicts(candidate, intervals(others))
	if len(idx) == 0 {
		return nil
	}

	conflicting := make([]*model.Reservation, 0, len(idx))
	for _, i := range idx {
		conflicting = append(conflicting, others[i].Clone())
	}
	return apperrors.SlotConflict(
		fmt.Sprintf("Requested time %s-%s overlaps %d existing reservation(s)", candidate.Start, candidate.End, len(conflicting)),
		conflicting,
	)
}

func intervals(scope []*model.Reservation) []slots.Interval {
	out := make([]slots.Interval, 0, len(scope))
	for _, r := range scope {
		out = append(out, slots.Interval{Start: r.Start, End: r.End})
	}
	return out
}

func mergeReservationUpdate(existing *model.Reservation, update *model.ReservationUpdate) *model.Reservation {
	merged := existing.Clone()

	if update.Start != nil {
		merged.Start, _ = model.ParseClock(*update.Start)
	}
	if update.Owner != nil {
		merged.Owner = *update.Owner
	}
	if update.UnitCount != nil {
		merged.UnitCount = *update.UnitCount
	}

	return merged
}

func (s *reservationService) load(ctx context.Context) (*repository.Snapshot, error) {
	reservations, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load reservations", "error", err)
		return nil, apperrors.StoreUnavailable("Failed to load reservations", err)
	}
	return repository.NewSnapshot(reservations), nil
}

func (s *reservationService) save(ctx context.Context, snap *repository.Snapshot) error {
	if err := s.store.Save(ctx, snap.All()); err != nil {
		s.log.Error("Failed to save reservations", "error", err)
		return apperrors.StoreUnavailable("Failed to save reservations", err)
	}
	return nil
}

// commit saves snap and returns the record id as read back from the store.
func (s *reservationService) commit(ctx context.Context, snap *repository.Snapshot, id string) (*model.Reservation, error) {
	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}

	fresh, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := fresh.Find(id)
	if !ok {
		s.log.Error("Reservation missing after save", "id", id)
		return nil, apperrors.StoreUnavailable("Reservation missing after save", reservationserrors.ErrNotFound)
	}
	return r, nil
}

// publish announces a committed change. The change is already durable, so a
// failed publish is logged and otherwise ignored.
func (s *reservationService) publish(ctx context.Context, eventType string, r *model.Reservation, session auth.Session) {
	event := model.ReservationEvent{
		Type:        eventType,
		Reservation: r,
		Actor:       session.Username,
		OccurredAt:  s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish reservation event",
			"event_type", eventType,
			"id", r.ID,
			"error", err,
		)
	}
}
