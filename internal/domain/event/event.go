package event

import "time"

// DomainEvent records a state transition an aggregate has undergone. Events
// are queued on the aggregate and dispatched by the application layer after a
// successful save, never from inside the entity.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
	// Payload returns the event body serialized for the message queue.
	Payload() map[string]any
}

type base struct {
	name        string
	aggregateID string
	occurredAt  time.Time
}

func newBase(name, aggregateID string) base {
	return base{name: name, aggregateID: aggregateID, occurredAt: time.Now().UTC()}
}

func (b base) EventName() string     { return b.name }
func (b base) AggregateID() string   { return b.aggregateID }
func (b base) OccurredAt() time.Time { return b.occurredAt }
