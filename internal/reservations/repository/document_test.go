package repository

import (
	"errors"
	"testing"

	reservationserrors "slotbook/internal/reservations/errors"
)

func TestFromDocument(t *testing.T) {
	valid := document{ID: "a", Date: "2025-03-10", Start: "09:00", End: "09:06", Owner: " Rossi ", UnitCount: 2}

	tests := []struct {
		name    string
		mutate  func(d *document)
		wantErr bool
	}{
		{"valid", func(d *document) {}, false},
		{"ends at midnight", func(d *document) { d.Start = "23:57"; d.End = "24:00" }, false},
		{"missing id", func(d *document) { d.ID = "" }, true},
		{"missing date", func(d *document) { d.Date = "" }, true},
		{"bad date", func(d *document) { d.Date = "10/03/2025" }, true},
		{"bad start", func(d *document) { d.Start = "nine" }, true},
		{"missing end", func(d *document) { d.End = "" }, true},
		{"end before start", func(d *document) { d.End = "08:00" }, true},
		{"blank owner", func(d *document) { d.Owner = "  " }, true},
		{"zero units", func(d *document) { d.UnitCount = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			r, err := fromDocument(d)
			if tt.wantErr {
				if !errors.Is(err, reservationserrors.ErrCorruptStore) {
					t.Errorf("expected ErrCorruptStore, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Owner != "Rossi" {
				t.Errorf("expected trimmed owner, got %q", r.Owner)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	in := reservation("a", "2025-03-10", "09:00", "09:06", "Rossi", 2)

	out, err := fromDocument(toDocument(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *out != *in {
		t.Errorf("round trip changed the record: %+v != %+v", out, in)
	}
}
