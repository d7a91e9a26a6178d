package shared

import (
	"context"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/booking"
	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/event"
	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/waitlist"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Events() EventRepository
	Bookings() BookingRepository
	Waitlist() WaitlistRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	EventByID(ctx context.Context, id uuid.UUID) (*EventSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
}

type EventRepository interface {
	Create(ctx context.Context, tx db.DBTX, ev *event.Event) (uuid.UUID, error)
	// LockForUpdate acquires the event's exclusive row lock for the rest of
	// the transaction and returns the counters as read under that lock.
	LockForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*EventSnapshot, error)
	// AddAvailable adjusts the available count by delta (positive or negative).
	AddAvailable(ctx context.Context, tx db.DBTX, id uuid.UUID, delta int) error
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	// MarkCancelled flips booked -> cancelled; it fails with a not-found
	// kind if the row is absent or no longer in booked state.
	MarkCancelled(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	// MarkBooked flips waiting -> booked during promotion.
	MarkBooked(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type WaitlistRepository interface {
	Insert(ctx context.Context, tx db.DBTX, entry *waitlist.Entry) (int64, error)
	// HeadForUpdate returns the queue head ordered by (created_at, id) with
	// a locking read, or (nil, nil) when the queue is empty.
	HeadForUpdate(ctx context.Context, tx db.DBTX, eventID uuid.UUID) (*WaitlistHead, error)
	Delete(ctx context.Context, tx db.DBTX, entryID int64) error
	CountByEvent(ctx context.Context, tx db.DBTX, eventID uuid.UUID) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, id uuid.UUID, email, passwordHash, role string) (uuid.UUID, error)
}
