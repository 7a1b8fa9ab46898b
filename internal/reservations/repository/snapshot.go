package repository

import (
	"sort"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/model"

	"github.com/google/uuid"
)

// Snapshot is a private working copy of the stored collection. Mutations stay
// local until the snapshot is handed back to Store.Save.
type Snapshot struct {
	items []*model.Reservation
}

func NewSnapshot(reservations []*model.Reservation) *Snapshot {
	items := make([]*model.Reservation, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, r.Clone())
	}
	return &Snapshot{items: items}
}

// All returns the records in stored order.
func (s *Snapshot) All() []*model.Reservation {
	return s.items
}

func (s *Snapshot) Len() int {
	return len(s.items)
}

// ForDate returns the reservations of one day ordered by start.
func (s *Snapshot) ForDate(date model.Date) []*model.Reservation {
	scope := make([]*model.Reservation, 0)
	for _, r := range s.items {
		if r.Date == date {
			scope = append(scope, r)
		}
	}
	sort.SliceStable(scope, func(i, j int) bool {
		return scope[i].Start < scope[j].Start
	})
	return scope
}

func (s *Snapshot) Find(id string) (*model.Reservation, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.items[i], true
}

// Append adds r, assigning a fresh ID when it has none, and returns the ID.
func (s *Snapshot) Append(r *model.Reservation) string {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.items = append(s.items, r)
	return r.ID
}

// Replace swaps the record sharing r's ID for r, keeping its position.
func (s *Snapshot) Replace(r *model.Reservation) error {
	i := s.indexOf(r.ID)
	if i < 0 {
		return reservationserrors.ErrNotFound
	}
	s.items[i] = r
	return nil
}

func (s *Snapshot) Remove(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return reservationserrors.ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Snapshot) indexOf(id string) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}
