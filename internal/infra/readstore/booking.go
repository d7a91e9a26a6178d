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

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	view := &queries.BookingView{}
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, event_id, status, created_at, updated_at
		 FROM bookings
		 WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.UserID, &view.EventID, &view.Status, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	return view, nil
}

func (r *BookingReadStore) FindByEventPaginated(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.user_id, u.email, b.status, b.created_at
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.event_id = $1 AND b.status <> 'cancelled'
		 ORDER BY b.created_at ASC, b.id ASC
		 LIMIT $2 OFFSET $3`,
		eventID, limit, offset,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		item := &queries.BookingListItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.UserEmail, &item.Status, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}

	return items, nil
}

func (r *BookingReadStore) FindWaitlistPaginated(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]*queries.WaitlistListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT w.id, w.user_id, u.email, w.created_at
		 FROM waitlist_entries w
		 JOIN users u ON u.id = w.user_id
		 WHERE w.event_id = $1
		 ORDER BY w.created_at ASC, w.id ASC
		 LIMIT $2 OFFSET $3`,
		eventID, limit, offset,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list waitlist entries", err)
	}
	defer rows.Close()

	var items []*queries.WaitlistListItem
	for rows.Next() {
		item := &queries.WaitlistListItem{}
		if err := rows.Scan(&item.EntryID, &item.UserID, &item.UserEmail, &item.JoinedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan waitlist row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate waitlist rows", err)
	}

	return items, nil
}

func (r *BookingReadStore) EventExists(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`,
		eventID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check event existence", err)
	}

	return exists, nil
}
