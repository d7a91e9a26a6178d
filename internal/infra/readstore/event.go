package readstore

import (
	"context"
	"errors"

	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EventReadStore struct {
	db db.DBTX
}

func NewEventReadStore(dbtx db.DBTX) *EventReadStore {
	return &EventReadStore{db: dbtx}
}

func (r *EventReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.EventView, error) {
	view := &queries.EventView{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, capacity, available, version, created_at, updated_at
		 FROM events
		 WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.Name, &view.Capacity, &view.Available, &view.Version, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find event by ID", err)
	}

	return view, nil
}

// StatusByID recomputes a status snapshot from the store in one statement,
// so the counters and the waitlist length come from the same read point.
func (r *EventReadStore) StatusByID(ctx context.Context, eventID uuid.UUID) (*queries.EventStatusView, error) {
	view := &queries.EventStatusView{}
	err := r.db.QueryRow(ctx,
		`SELECT e.id, e.name, e.capacity, e.available, e.version,
		        (SELECT COUNT(*) FROM waitlist_entries w WHERE w.event_id = e.id)
		 FROM events e
		 WHERE e.id = $1`,
		eventID,
	).Scan(&view.EventID, &view.Name, &view.Capacity, &view.Available, &view.Version, &view.WaitlistCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load event status", err)
	}

	return view, nil
}

func (r *EventReadStore) ListAll(ctx context.Context) ([]*queries.EventListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, capacity, available, created_at
		 FROM events
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list events", err)
	}
	defer rows.Close()

	var items []*queries.EventListItem
	for rows.Next() {
		item := &queries.EventListItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Capacity, &item.Available, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan event row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate event rows", err)
	}

	return items, nil
}
