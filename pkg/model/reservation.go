package model

import (
	"time"
)

type Reservation struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	Start     Clock     `json:"start"`
	End       Clock     `json:"end"`
	Owner     string    `json:"owner"`
	UnitCount int       `json:"unit_count"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (r *Reservation) Clone() *Reservation {
	c := *r
	return &c
}

type ReservationInput struct {
	Date      string `json:"date" validate:"required,iso_date"`
	Start     string `json:"start" validate:"required,clock"`
	Owner     string `json:"owner" validate:"required,min=1"`
	UnitCount int    `json:"unit_count" validate:"required,min=1"`
}

// ReservationUpdate carries a partial edit. Nil fields keep their current value.
type ReservationUpdate struct {
	Start     *string `json:"start,omitempty" validate:"omitempty,clock"`
	Owner     *string `json:"owner,omitempty" validate:"omitempty,min=1"`
	UnitCount *int    `json:"unit_count,omitempty" validate:"omitempty,min=1"`
}

type Availability struct {
	Date         Date           `json:"date"`
	Slots        []Clock        `json:"slots"`
	Available    []Clock        `json:"available"`
	Reservations []*Reservation `json:"reservations"`
}

const (
	EventReservationCreated   = "reservation.created"
	EventReservationEdited    = "reservation.edited"
	EventReservationCancelled = "reservation.cancelled"
)

type ReservationEvent struct {
	Type        string       `json:"type"`
	Reservation *Reservation `json:"reservation"`
	Actor       string       `json:"actor"`
	OccurredAt  time.Time    `json:"occurred_at"`
}
