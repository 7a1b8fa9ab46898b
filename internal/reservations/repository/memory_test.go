package repository

import (
	"context"
	"errors"
	"testing"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/model"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty store, got %v, %v", got, err)
	}

	in := []*model.Reservation{reservation("a", "2025-03-10", "09:00", "09:03", "Rossi", 1)}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	in[0].Owner = "mutated"

	got, _ = store.Load(ctx)
	if len(got) != 1 || got[0].Owner != "Rossi" {
		t.Errorf("store shares memory with caller: %+v", got)
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(reservation("a", "2025-03-10", "09:00", "09:03", "Rossi", 1))
	store.Close()

	if _, err := store.Load(ctx); !errors.Is(err, reservationserrors.ErrStoreClosed) {
		t.Errorf("Load() expected ErrStoreClosed, got %v", err)
	}
	if err := store.Save(ctx, nil); !errors.Is(err, reservationserrors.ErrStoreClosed) {
		t.Errorf("Save() expected ErrStoreClosed, got %v", err)
	}
	if err := store.Ping(ctx); !errors.Is(err, reservationserrors.ErrStoreClosed) {
		t.Errorf("Ping() expected ErrStoreClosed, got %v", err)
	}
}
