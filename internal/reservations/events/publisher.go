package events

import (
	"context"
	"fmt"

	"slotbook/pkg/kafka"
	"slotbook/pkg/model"
)

const SchemaVersion = "1"

// Publisher announces committed reservation changes.
type Publisher interface {
	Publish(ctx context.Context, event model.ReservationEvent) error
	Close() error
}

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

// Publish keys the message by date so that every change to one day lands on
// the same partition in commit order.
func (p *KafkaPublisher) Publish(ctx context.Context, event model.ReservationEvent) error {
	if event.Reservation == nil {
		return fmt.Errorf("event %s has no reservation", event.Type)
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Reservation.Date.String()).
		WithValue(event).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(CorrelationID(ctx)).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.ReservationEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

type correlationKey struct{}

// WithCorrelationID attaches the id of the request that caused an event.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
