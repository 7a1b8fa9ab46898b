package events

import (
	"context"

	"slotbook/pkg/kafka"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

// NewAuditHandler returns a consumer handler that writes one structured log
// line per reservation change. Undecodable messages fail permanently so the
// consumer parks them instead of retrying.
func NewAuditHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.ReservationEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("failed to decode reservation event", err)
		}
		if event.Reservation == nil {
			return kafka.NewPermanentError("reservation event without reservation", nil)
		}

		switch event.Type {
		case model.EventReservationCreated, model.EventReservationEdited, model.EventReservationCancelled:
		default:
			log.Warn("Skipping unknown reservation event", "event_type", event.Type, "event_id", msg.GetEventID())
			return nil
		}

		r := event.Reservation
		log.Info("Reservation changed",
			"event_type", event.Type,
			"event_id", msg.GetEventID(),
			"actor", event.Actor,
			"reservation_id", r.ID,
			"date", r.Date,
			"start", r.Start.String(),
			"end", r.End.String(),
			"owner", r.Owner,
			"unit_count", r.UnitCount,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}
