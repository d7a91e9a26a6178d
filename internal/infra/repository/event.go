package repository

import (
	"context"
	"errors"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/event"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EventRepository struct{}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) Create(ctx context.Context, tx db.DBTX, ev *event.Event) (uuid.UUID, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO events (id, name, capacity, available)
		 VALUES ($1, $2, $3, $4)`,
		ev.ID(), ev.Name().Value(), ev.Capacity(), ev.Available(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("event name already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create event", err)
	}

	return ev.ID(), nil
}

// LockForUpdate takes the event's exclusive row lock. Every writer that
// touches this event's counters (booking, cancellation, promotion) goes
// through here first, so concurrent writers on the same event serialize
// while writers on other events proceed independently.
//
// The UPDATE acquires the same row lock a SELECT ... FOR UPDATE would,
// and bumps the version while holding it. The lock is held until commit,
// so the returned version is monotone in commit order per event.
func (r *EventRepository) LockForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*shared.EventSnapshot, error) {
	snap := &shared.EventSnapshot{}
	err := tx.QueryRow(ctx,
		`UPDATE events
		 SET version = version + 1, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, capacity, available, version`,
		id,
	).Scan(&snap.ID, &snap.Name, &snap.Capacity, &snap.Available, &snap.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("event not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock event row", err)
	}

	return snap, nil
}

func (r *EventRepository) AddAvailable(ctx context.Context, tx db.DBTX, id uuid.UUID, delta int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE events
		 SET available = available + $2, updated_at = now()
		 WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update available count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("event not found", nil, infra.KindNotFound)
	}
	return nil
}
