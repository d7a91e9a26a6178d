package repository

import (
	"context"
	"errors"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/waitlist"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WaitlistRepository struct{}

func NewWaitlistRepository() *WaitlistRepository {
	return &WaitlistRepository{}
}

func (r *WaitlistRepository) Insert(ctx context.Context, tx db.DBTX, entry *waitlist.Entry) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO waitlist_entries (booking_id, user_id, event_id)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		entry.BookingID(), entry.UserID(), entry.EventID(),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, infra.WrapRepoErr("waitlist entry references missing row", err, infra.KindForeignKeyViolated)
		}
		return 0, infra.WrapRepoErr("failed to insert waitlist entry", err)
	}

	return id, nil
}

// HeadForUpdate re-derives the queue head under lock at promotion time.
// The caller already holds the event row lock, so this is belt-and-braces
// against a promotion path that ever skips the event lock.
func (r *WaitlistRepository) HeadForUpdate(ctx context.Context, tx db.DBTX, eventID uuid.UUID) (*shared.WaitlistHead, error) {
	head := &shared.WaitlistHead{}
	err := tx.QueryRow(ctx,
		`SELECT id, booking_id, user_id, created_at
		 FROM waitlist_entries
		 WHERE event_id = $1
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1
		 FOR UPDATE`,
		eventID,
	).Scan(&head.EntryID, &head.BookingID, &head.UserID, &head.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Empty queue is a normal branch, not an error.
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to read waitlist head", err)
	}

	return head, nil
}

func (r *WaitlistRepository) Delete(ctx context.Context, tx db.DBTX, entryID int64) error {
	tag, err := tx.Exec(ctx,
		`DELETE FROM waitlist_entries WHERE id = $1`,
		entryID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to delete waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("waitlist entry not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *WaitlistRepository) CountByEvent(ctx context.Context, tx db.DBTX, eventID uuid.UUID) (int64, error) {
	var count int64
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM waitlist_entries WHERE event_id = $1`,
		eventID,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count waitlist entries", err)
	}

	return count, nil
}
