package application

import (
	"context"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
)

// EventDispatcher receives the events pulled from an aggregate after a
// successful save. Implementations must be best-effort: delivery failures are
// logged, never surfaced to the caller.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []event.DomainEvent)
}

// UserIndexer maintains the search index copy of the user listing.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User)
	Remove(ctx context.Context, ids []string)
	Search(ctx context.Context, query string, size int) ([]map[string]any, error)
}

// NopDispatcher drops events; used in tests and when the broker is not
// configured.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, []event.DomainEvent) {}
