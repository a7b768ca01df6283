package messaging

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	"github.com/mustafa-mbari/wmsv1-sub001/pkg/helpers"
)

// EventEnvelope is the wire form of a domain event on the events queue.
type EventEnvelope struct {
	Name        string         `json:"name"`
	AggregateID string         `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// RabbitDispatcher publishes pulled aggregate events to RabbitMQ. Dispatch is
// best effort; a broker outage must never fail the originating request.
type RabbitDispatcher struct {
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewRabbitDispatcher(pub *helpers.RabbitPublisher, logger *logrus.Logger) *RabbitDispatcher {
	return &RabbitDispatcher{Pub: pub, Logger: logger}
}

func (d *RabbitDispatcher) Dispatch(ctx context.Context, events []event.DomainEvent) {
	if d == nil || d.Pub == nil {
		return
	}
	for _, e := range events {
		env := EventEnvelope{
			Name:        e.EventName(),
			AggregateID: e.AggregateID(),
			OccurredAt:  e.OccurredAt(),
			Payload:     e.Payload(),
		}
		if err := d.Pub.PublishJSON(ctx, e.EventName(), env); err != nil && d.Logger != nil {
			d.Logger.WithError(err).WithFields(logrus.Fields{
				"event":        e.EventName(),
				"aggregate_id": e.AggregateID(),
			}).Warn("event publish failed")
		}
	}
}
