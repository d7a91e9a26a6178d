package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command read operations

type EventSnapshot struct {
	ID        uuid.UUID
	Name      string
	Capacity  int
	Available int
	// Version is bumped under the event's row lock on every write
	// transaction, so it orders snapshots by commit order.
	Version int64
}

type BookingSnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	EventID   uuid.UUID
	Status    string
	CreatedAt time.Time
}

// WaitlistHead is the locked read of the next entry to promote.
type WaitlistHead struct {
	EntryID   int64
	BookingID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}
