package queries

import (
	"context"

	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/cache"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/clock"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrEventNotFound = errs.New("event not found")

type EventQueries interface {
	// Status prefers the cache and falls through to the store on miss,
	// populating the cache before returning.
	Status(ctx context.Context, eventID uuid.UUID) (*EventStatusView, error)
	List(ctx context.Context) ([]*EventListItem, error)
}

type EventReadStore interface {
	// StatusByID recomputes the snapshot source-of-truth: capacity,
	// available and waitlist length as read from the store.
	StatusByID(ctx context.Context, eventID uuid.UUID) (*EventStatusView, error)
	ListAll(ctx context.Context) ([]*EventListItem, error)
}

type eventQueriesImpl struct {
	readStore EventReadStore
	cache     cache.StatusCache
	clock     clock.Clock
}

func NewEventQueries(readStore EventReadStore, statusCache cache.StatusCache, clk clock.Clock) EventQueries {
	return &eventQueriesImpl{
		readStore: readStore,
		cache:     statusCache,
		clock:     clk,
	}
}

func (q *eventQueriesImpl) Status(ctx context.Context, eventID uuid.UUID) (*EventStatusView, error) {
	if snap, ok := q.cache.Get(eventID); ok {
		return statusViewFromSnapshot(snap), nil
	}

	view, err := q.readStore.StatusByID(ctx, eventID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	view.AsOf = q.clock.Now()
	q.cache.Set(eventID, snapshotFromStatusView(view))

	return view, nil
}

func (q *eventQueriesImpl) List(ctx context.Context) ([]*EventListItem, error) {
	return q.readStore.ListAll(ctx)
}

func statusViewFromSnapshot(snap cache.Snapshot) *EventStatusView {
	return &EventStatusView{
		EventID:       snap.EventID,
		Name:          snap.Name,
		Capacity:      snap.Capacity,
		Available:     snap.Available,
		WaitlistCount: snap.WaitlistCount,
		Version:       snap.Version,
		AsOf:          snap.AsOf,
	}
}

func snapshotFromStatusView(view *EventStatusView) cache.Snapshot {
	return cache.Snapshot{
		EventID:       view.EventID,
		Name:          view.Name,
		Capacity:      view.Capacity,
		Available:     view.Available,
		WaitlistCount: view.WaitlistCount,
		Version:       view.Version,
		AsOf:          view.AsOf,
	}
}
