package repository

import (
	"fmt"
	"strings"
	"time"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

// document is the serialized form of a reservation shared by every backend.
// Times of day and dates are kept as strings so that the stored layout stays
// readable outside the service.
type document struct {
	ID        string    `bson:"_id"`
	Date      string    `bson:"date"`
	Start     string    `bson:"start"`
	End       string    `bson:"end"`
	Owner     string    `bson:"owner"`
	UnitCount int       `bson:"unit_count"`
	CreatedAt time.Time `bson:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty"`
}

func toDocument(r *model.Reservation) document {
	return document{
		ID:        r.ID,
		Date:      r.Date.String(),
		Start:     r.Start.String(),
		End:       r.End.String(),
		Owner:     r.Owner,
		UnitCount: r.UnitCount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toDocuments(reservations []*model.Reservation) []document {
	docs := make([]document, 0, len(reservations))
	for _, r := range reservations {
		docs = append(docs, toDocument(r))
	}
	return docs
}

// fromDocument checks that every required field is present and well formed.
func fromDocument(d document) (*model.Reservation, error) {
	if strings.TrimSpace(d.ID) == "" {
		return nil, fmt.Errorf("%w: record without id", reservationserrors.ErrCorruptStore)
	}
	date, err := model.ParseDate(d.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %v", reservationserrors.ErrCorruptStore, d.ID, err)
	}
	start, err := model.ParseClock(d.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %v", reservationserrors.ErrCorruptStore, d.ID, err)
	}
	end, err := model.ParseClock(d.End)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %v", reservationserrors.ErrCorruptStore, d.ID, err)
	}
	if end <= start {
		return nil, fmt.Errorf("%w: record %s ends at %s before it starts at %s", reservationserrors.ErrCorruptStore, d.ID, end, start)
	}
	owner := strings.TrimSpace(d.Owner)
	if owner == "" {
		return nil, fmt.Errorf("%w: record %s has no owner", reservationserrors.ErrCorruptStore, d.ID)
	}
	if d.UnitCount < 1 {
		return nil, fmt.Errorf("%w: record %s has unit_count %d", reservationserrors.ErrCorruptStore, d.ID, d.UnitCount)
	}

	return &model.Reservation{
		ID:        d.ID,
		Date:      date,
		Start:     start,
		End:       end,
		Owner:     owner,
		UnitCount: d.UnitCount,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// decodeDocuments unmarshals raw documents and validates them.
func decodeDocuments(raws []bson.Raw) ([]*model.Reservation, error) {
	docs := make([]document, 0, len(raws))
	for i, raw := range raws {
		var d document
		if err := bson.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", reservationserrors.ErrCorruptStore, i, err)
		}
		docs = append(docs, d)
	}
	return fromDocuments(docs)
}

func fromDocuments(docs []document) ([]*model.Reservation, error) {
	reservations := make([]*model.Reservation, 0, len(docs))
	for _, d := range docs {
		r, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, nil
}
