package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{input: "09:00", want: 540},
		{input: " 15:57 ", want: 957},
		{input: "00:00", want: 0},
		{input: "24:00", want: EndOfDay},
		{input: "9:00", want: 540},
		{input: "09:00:00", wantErr: true},
		{input: "25:00", wantErr: true},
		{input: "09:60", wantErr: true},
		{input: "", wantErr: true},
		{input: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestClock_StringAndArithmetic(t *testing.T) {
	c := MustParseClock("09:00")
	if got := c.Add(6 * time.Minute).String(); got != "09:06" {
		t.Errorf("Add() = %s, want 09:06", got)
	}
	if got := MustParseClock("09:09").Sub(c); got != 9*time.Minute {
		t.Errorf("Sub() = %s, want 9m", got)
	}
	if got := EndOfDay.String(); got != "24:00" {
		t.Errorf("EndOfDay.String() = %s, want 24:00", got)
	}
}

func TestClock_JSON(t *testing.T) {
	r := Reservation{ID: "a", Date: "2025-03-01", Start: MustParseClock("09:03"), End: MustParseClock("09:06"), Owner: "Anna", UnitCount: 1}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if decoded["start"] != "09:03" || decoded["end"] != "09:06" {
		t.Errorf("expected HH:MM strings on the wire, got start=%v end=%v", decoded["start"], decoded["end"])
	}

	var back Reservation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Start != r.Start || back.End != r.End {
		t.Errorf("clock values changed: %s-%s", back.Start, back.End)
	}

	if err := json.Unmarshal([]byte(`{"start":"9am"}`), &back); err == nil {
		t.Error("expected error decoding malformed clock")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-01 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != "2025-03-01" {
		t.Errorf("ParseDate() = %s", d)
	}

	for _, bad := range []string{"", "2025-3-1", "01/03/2025", "2025-02-30"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
