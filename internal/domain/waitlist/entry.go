// Package waitlist models the per-event FIFO queue of pending booking
// requests. Entries are totally ordered by (created_at, id); the serial id
// breaks ties between entries created in the same instant, so the head of
// the order is always the next to be promoted.
package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one pending request for a unit of capacity. It is paired with a
// waiting booking: the entry carries the queue position, the booking
// carries the lifecycle state, and promotion updates both in one
// transaction.
type Entry struct {
	id        int64
	bookingID uuid.UUID
	userID    uuid.UUID
	eventID   uuid.UUID
	createdAt time.Time
}

func NewEntry(bookingID, userID, eventID uuid.UUID) *Entry {
	return &Entry{
		bookingID: bookingID,
		userID:    userID,
		eventID:   eventID,
	}
}

func ReconstructEntry(id int64, bookingID, userID, eventID uuid.UUID, createdAt time.Time) *Entry {
	return &Entry{
		id:        id,
		bookingID: bookingID,
		userID:    userID,
		eventID:   eventID,
		createdAt: createdAt,
	}
}

// Before reports whether e precedes other in queue order.
func (e *Entry) Before(other *Entry) bool {
	if e.createdAt.Equal(other.createdAt) {
		return e.id < other.id
	}
	return e.createdAt.Before(other.createdAt)
}

func (e *Entry) ID() int64            { return e.id }
func (e *Entry) BookingID() uuid.UUID { return e.bookingID }
func (e *Entry) UserID() uuid.UUID    { return e.userID }
func (e *Entry) EventID() uuid.UUID   { return e.eventID }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }
