package repository

import (
	"context"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/booking"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO bookings (id, user_id, event_id, status)
		 VALUES ($1, $2, $3, $4)`,
		b.ID(), b.UserID(), b.EventID(), b.Status().String(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("booking references missing user or event", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return b.ID(), nil
}

// MarkCancelled is guarded on status so a concurrent cancel of the same
// booking loses cleanly instead of double-freeing a seat.
func (r *BookingRepository) MarkCancelled(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE bookings
		 SET status = 'cancelled', updated_at = now()
		 WHERE id = $1 AND status = 'booked'`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to cancel booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found or not in booked state", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) MarkBooked(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE bookings
		 SET status = 'booked', updated_at = now()
		 WHERE id = $1 AND status = 'waiting'`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to promote booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found or not in waiting state", nil, infra.KindNotFound)
	}
	return nil
}
