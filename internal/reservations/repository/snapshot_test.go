package repository

import (
	"errors"
	"testing"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/model"
)

func reservation(id, date, start, end, owner string, units int) *model.Reservation {
	return &model.Reservation{
		ID:        id,
		Date:      model.Date(date),
		Start:     model.MustParseClock(start),
		End:       model.MustParseClock(end),
		Owner:     owner,
		UnitCount: units,
	}
}

func TestSnapshot_ForDateSortsByStart(t *testing.T) {
	snap := NewSnapshot([]*model.Reservation{
		reservation("a", "2025-03-10", "10:00", "10:03", "Rossi", 1),
		reservation("b", "2025-03-11", "09:00", "09:03", "Bianchi", 1),
		reservation("c", "2025-03-10", "09:00", "09:06", "Verdi", 2),
	})

	scope := snap.ForDate("2025-03-10")
	if len(scope) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(scope))
	}
	if scope[0].ID != "c" || scope[1].ID != "a" {
		t.Errorf("expected order [c a], got [%s %s]", scope[0].ID, scope[1].ID)
	}

	if got := snap.ForDate("2025-03-12"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil scope, got %v", got)
	}
}

func TestSnapshot_CopiesInput(t *testing.T) {
	src := []*model.Reservation{reservation("a", "2025-03-10", "10:00", "10:03", "Rossi", 1)}
	snap := NewSnapshot(src)

	got, _ := snap.Find("a")
	got.Owner = "changed"

	if src[0].Owner != "Rossi" {
		t.Error("snapshot mutation leaked into the source slice")
	}
}

func TestSnapshot_AppendAssignsID(t *testing.T) {
	snap := NewSnapshot(nil)

	id := snap.Append(reservation("", "2025-03-10", "09:00", "09:03", "Rossi", 1))
	if id == "" {
		t.Fatal("expected an assigned ID")
	}
	if _, ok := snap.Find(id); !ok {
		t.Error("appended reservation not found")
	}

	kept := snap.Append(reservation("fixed", "2025-03-10", "09:03", "09:06", "Verdi", 1))
	if kept != "fixed" {
		t.Errorf("expected existing ID to be kept, got %s", kept)
	}
	if snap.Len() != 2 {
		t.Errorf("expected 2 records, got %d", snap.Len())
	}
}

func TestSnapshot_ReplaceKeepsPosition(t *testing.T) {
	snap := NewSnapshot([]*model.Reservation{
		reservation("a", "2025-03-10", "09:00", "09:03", "Rossi", 1),
		reservation("b", "2025-03-10", "09:03", "09:06", "Verdi", 1),
	})

	if err := snap.Replace(reservation("a", "2025-03-10", "09:09", "09:12", "Rossi", 1)); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got := snap.All()[0]; got.ID != "a" || got.Start != model.MustParseClock("09:09") {
		t.Errorf("unexpected first record %+v", got)
	}

	err := snap.Replace(reservation("zzz", "2025-03-10", "09:00", "09:03", "X", 1))
	if !errors.Is(err, reservationserrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshot_Remove(t *testing.T) {
	snap := NewSnapshot([]*model.Reservation{
		reservation("a", "2025-03-10", "09:00", "09:03", "Rossi", 1),
		reservation("b", "2025-03-10", "09:03", "09:06", "Verdi", 1),
	})

	if err := snap.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if snap.Len() != 1 || snap.All()[0].ID != "b" {
		t.Errorf("unexpected contents after remove: %v", snap.All())
	}
	if err := snap.Remove("a"); !errors.Is(err, reservationserrors.ErrNotFound) {
		t.Errorf("second Remove() expected ErrNotFound, got %v", err)
	}
}
