package repository

import (
	"context"
	"sync"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/model"
)

// MemoryStore keeps the collection in process memory. Records are copied on
// the way in and out so callers never share pointers with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []*model.Reservation
	closed bool
}

func NewMemoryStore(seed ...*model.Reservation) *MemoryStore {
	return &MemoryStore{items: cloneAll(seed)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, reservationserrors.ErrStoreClosed
	}
	return cloneAll(s.items), nil
}

func (s *MemoryStore) Save(ctx context.Context, reservations []*model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return reservationserrors.ErrStoreClosed
	}
	s.items = cloneAll(reservations)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return reservationserrors.ErrStoreClosed
	}
	return ctx.Err()
}

// Close makes every later call fail with ErrStoreClosed.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func cloneAll(reservations []*model.Reservation) []*model.Reservation {
	out := make([]*model.Reservation, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, r.Clone())
	}
	return out
}
