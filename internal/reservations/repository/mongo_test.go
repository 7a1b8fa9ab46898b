package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/config"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func mustRaw(t *testing.T, v any) bson.Raw {
	t.Helper()
	b, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	return bson.Raw(b)
}

func newTestMongoStore(fetch func(ctx context.Context) ([]bson.Raw, error), reset func(ctx context.Context) error) *mongoStore {
	return &mongoStore{
		cfg:   &config.Config{ReadTimeout: time.Second, WriteTimeout: time.Second},
		log:   logger.Nop(),
		fetch: fetch,
		reset: reset,
	}
}

func TestMongoStore_Load(t *testing.T) {
	cursorLost := mongo.CommandError{Code: 43, Name: "CursorNotFound", Message: "cursor id 42 not found"}

	tests := []struct {
		name        string
		raws        func(t *testing.T) []bson.Raw
		fetchErr    error
		resetErr    error
		wantErr     bool
		wantCorrupt bool
		wantResets  int
		wantCount   int
	}{
		{
			name: "valid documents",
			raws: func(t *testing.T) []bson.Raw {
				return []bson.Raw{
					mustRaw(t, toDocument(reservation("a", "2025-03-10", "09:00", "09:06", "Rossi", 2))),
					mustRaw(t, toDocument(reservation("b", "2025-03-10", "09:06", "09:09", "Verdi", 1))),
				}
			},
			wantCount: 2,
		},
		{
			name:       "cursor lost mid read",
			fetchErr:   cursorLost,
			wantErr:    true,
			wantResets: 0,
		},
		{
			name:       "network failure",
			fetchErr:   mongo.CommandError{Code: 89, Name: "NetworkTimeout", Labels: []string{"NetworkError"}},
			wantErr:    true,
			wantResets: 0,
		},
		{
			name:       "deadline exceeded",
			fetchErr:   context.DeadlineExceeded,
			wantErr:    true,
			wantResets: 0,
		},
		{
			name: "field of the wrong type",
			raws: func(t *testing.T) []bson.Raw {
				return []bson.Raw{mustRaw(t, bson.M{"_id": "a", "date": 20250310, "start": "09:00"})}
			},
			wantResets: 1,
		},
		{
			name: "malformed date",
			raws: func(t *testing.T) []bson.Raw {
				return []bson.Raw{mustRaw(t, bson.M{
					"_id": "a", "date": "nope", "start": "09:00", "end": "09:03", "owner": "Rossi", "unit_count": 1,
				})}
			},
			wantResets: 1,
		},
		{
			name: "reinitialize fails",
			raws: func(t *testing.T) []bson.Raw {
				return []bson.Raw{mustRaw(t, bson.M{"_id": "", "date": "2025-03-10"})}
			},
			resetErr:    errors.New("write conflict"),
			wantErr:     true,
			wantCorrupt: true,
			wantResets:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resets := 0
			store := newTestMongoStore(
				func(ctx context.Context) ([]bson.Raw, error) {
					if tt.fetchErr != nil {
						return nil, tt.fetchErr
					}
					return tt.raws(t), nil
				},
				func(ctx context.Context) error {
					resets++
					return tt.resetErr
				},
			)

			got, err := store.Load(context.Background())
			if resets != tt.wantResets {
				t.Errorf("reset called %d times, want %d", resets, tt.wantResets)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.fetchErr != nil && err.Error() != tt.fetchErr.Error() {
					t.Errorf("expected %v to be returned as is, got %v", tt.fetchErr, err)
				}
				if got := errors.Is(err, reservationserrors.ErrCorruptStore); got != tt.wantCorrupt {
					t.Errorf("errors.Is(err, ErrCorruptStore) = %v, want %v", got, tt.wantCorrupt)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("expected %d reservations, got %d", tt.wantCount, len(got))
			}
		})
	}
}

func TestDecodeDocuments(t *testing.T) {
	want := reservation("a", "2025-03-10", "23:57", "24:00", "Rossi", 1)
	got, err := decodeDocuments([]bson.Raw{mustRaw(t, toDocument(want))})
	if err != nil {
		t.Fatalf("decodeDocuments() error = %v", err)
	}
	if len(got) != 1 || got[0].End != model.EndOfDay || got[0].Owner != "Rossi" {
		t.Errorf("unexpected reservations: %+v", got)
	}

	_, err = decodeDocuments([]bson.Raw{{0x05, 0x00}})
	if !errors.Is(err, reservationserrors.ErrCorruptStore) {
		t.Errorf("expected ErrCorruptStore for undecodable bytes, got %v", err)
	}
}
