package commands

import (
	"context"
	"time"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/booking"
	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/event"
	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/waitlist"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/cache"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/clock"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/errs"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound      = errs.New("event not found")
	ErrBookingNotFound    = errs.New("booking not found")
	ErrBookingNotOwned    = errs.New("booking belongs to another user")
	ErrAlreadyCancelled   = errs.New("booking is already cancelled")
	ErrCancelNotAllowed   = errs.New("only booked bookings can be cancelled")
	ErrLockWaitTimeout    = errs.New("timed out waiting for the event lock")
	ErrDatabaseOperation  = errs.New("database operation failed")
	ErrInvalidBookingUser = errs.New("user does not exist")
)

// BookResult reports the outcome of a booking request. A sold-out event
// does not fail the request; it parks it on the waitlist instead, and
// Waitlisted with the queue Position tells the caller which path was taken.
type BookResult struct {
	BookingID  uuid.UUID
	Status     string
	Waitlisted bool
	// Position is the 1-based queue position, zero when not waitlisted.
	Position int64
}

// CancelResult reports a cancellation. When the freed seat was handed
// straight to the waitlist head, PromotedBookingID identifies it and the
// seat never returned to the open pool.
type CancelResult struct {
	BookingID         uuid.UUID
	PromotedBookingID *uuid.UUID
}

type BookingCommands interface {
	// Book acquires one unit of the event's capacity for the user, or joins
	// the waitlist when none is available. Exactly one of the two happens,
	// decided under the event's row lock.
	Book(ctx context.Context, userID, eventID uuid.UUID) (*BookResult, error)
	// Cancel releases the caller's booked seat. The freed unit goes to the
	// waitlist head when one exists, otherwise back to the available pool.
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*CancelResult, error)
}

type bookingUseCaseImpl struct {
	uow         shared.UnitOfWork
	statusCache cache.StatusCache
	clock       clock.Clock
}

func NewBookingUseCase(uow shared.UnitOfWork, statusCache cache.StatusCache, clk clock.Clock) BookingCommands {
	return &bookingUseCaseImpl{
		uow:         uow,
		statusCache: statusCache,
		clock:       clk,
	}
}

func (u *bookingUseCaseImpl) Book(ctx context.Context, userID, eventID uuid.UUID) (*BookResult, error) {
	var (
		result BookResult
		snap   cache.Snapshot
	)

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ev, err := tx.Events().LockForUpdate(ctx, tx.DB(), eventID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEventNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		agg := eventFromSnapshot(ev)

		if agg.IsSoldOut() {
			b := booking.NewWaiting(userID, eventID)
			if _, err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
				if infra.IsKind(err, infra.KindForeignKeyViolated) {
					return ErrInvalidBookingUser
				}
				return errs.Mark(err, ErrDatabaseOperation)
			}
			if _, err := tx.Waitlist().Insert(ctx, tx.DB(), waitlist.NewEntry(b.ID(), userID, eventID)); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}

			result = BookResult{
				BookingID:  b.ID(),
				Status:     string(booking.StatusWaiting),
				Waitlisted: true,
			}
		} else {
			if err := agg.Reserve(); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}
			b := booking.NewBooked(userID, eventID)
			if _, err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
				if infra.IsKind(err, infra.KindForeignKeyViolated) {
					return ErrInvalidBookingUser
				}
				return errs.Mark(err, ErrDatabaseOperation)
			}
			if err := tx.Events().AddAvailable(ctx, tx.DB(), eventID, -1); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}

			result = BookResult{
				BookingID: b.ID(),
				Status:    string(booking.StatusBooked),
			}
		}

		count, err := tx.Waitlist().CountByEvent(ctx, tx.DB(), eventID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if result.Waitlisted {
			// The new entry joined at the tail of the queue.
			result.Position = count
		}

		snap = cache.Snapshot{
			EventID:       eventID,
			Name:          ev.Name,
			Capacity:      ev.Capacity,
			Available:     agg.Available(),
			WaitlistCount: count,
			Version:       ev.Version,
			AsOf:          u.clock.Now(),
		}
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindLockTimeout) {
			return nil, errs.Mark(err, ErrLockWaitTimeout)
		}
		return nil, err
	}

	// The snapshot reflects committed state only; installing it before the
	// commit would expose an attempt that may still roll back. Installs for
	// one event can arrive out of commit order once the row lock is
	// released, so the cache keeps the highest version, not the last write.
	u.statusCache.Set(eventID, snap)

	return &result, nil
}

func (u *bookingUseCaseImpl) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (*CancelResult, error) {
	var (
		result  CancelResult
		snap    cache.Snapshot
		eventID uuid.UUID
	)

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if b.UserID != userID {
			return ErrBookingNotOwned
		}
		switch booking.Status(b.Status) {
		case booking.StatusBooked:
			// Cancellable.
		case booking.StatusCancelled:
			return ErrAlreadyCancelled
		default:
			return ErrCancelNotAllowed
		}

		eventID = b.EventID

		// All counter mutations for this event serialize behind this lock;
		// the booking row is only touched afterwards, which keeps lock
		// ordering uniform across book, cancel and promote.
		ev, err := tx.Events().LockForUpdate(ctx, tx.DB(), eventID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if err := tx.Bookings().MarkCancelled(ctx, tx.DB(), bookingID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				// Lost a race before we held the event lock; the only exit
				// from booked is cancelled.
				return ErrAlreadyCancelled
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		agg := eventFromSnapshot(ev)

		head, err := tx.Waitlist().HeadForUpdate(ctx, tx.DB(), eventID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if head != nil {
			// Hand the freed unit straight to the queue head: the entry
			// leaves the queue and its waiting booking becomes booked, so
			// the available count is unchanged on net.
			if err := tx.Waitlist().Delete(ctx, tx.DB(), head.EntryID); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}
			if err := tx.Bookings().MarkBooked(ctx, tx.DB(), head.BookingID); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}
			promoted := head.BookingID
			result = CancelResult{BookingID: bookingID, PromotedBookingID: &promoted}
		} else {
			if err := agg.Release(); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}
			if err := tx.Events().AddAvailable(ctx, tx.DB(), eventID, 1); err != nil {
				return errs.Mark(err, ErrDatabaseOperation)
			}
			result = CancelResult{BookingID: bookingID}
		}

		count, err := tx.Waitlist().CountByEvent(ctx, tx.DB(), eventID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		snap = cache.Snapshot{
			EventID:       eventID,
			Name:          ev.Name,
			Capacity:      ev.Capacity,
			Available:     agg.Available(),
			WaitlistCount: count,
			Version:       ev.Version,
			AsOf:          u.clock.Now(),
		}
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindLockTimeout) {
			return nil, errs.Mark(err, ErrLockWaitTimeout)
		}
		return nil, err
	}

	u.statusCache.Set(eventID, snap)

	return &result, nil
}

// eventFromSnapshot rebuilds the aggregate from a locked row read so the
// counter decisions (reserve, release, sold-out) run through the domain
// invariants. Timestamps play no part in those decisions.
func eventFromSnapshot(snap *shared.EventSnapshot) *event.Event {
	return event.ReconstructEvent(
		snap.ID,
		event.ReconstructName(snap.Name),
		snap.Capacity,
		snap.Available,
		time.Time{},
		time.Time{},
	)
}
