package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotBooked        = errors.New("booking is not in booked state")
	ErrNotWaiting       = errors.New("booking is not in waiting state")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// Booking records one unit of an event's capacity assigned to a user, or a
// pending (waiting) request for one. Only a booking in StatusBooked
// consumes capacity.
type Booking struct {
	id        uuid.UUID
	userID    uuid.UUID
	eventID   uuid.UUID
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewBooked creates a booking that consumed a unit of capacity.
func NewBooked(userID, eventID uuid.UUID) *Booking {
	return &Booking{
		id:      uuid.New(),
		userID:  userID,
		eventID: eventID,
		status:  StatusBooked,
	}
}

// NewWaiting creates a capacity-free placeholder backing a waitlist entry.
func NewWaiting(userID, eventID uuid.UUID) *Booking {
	return &Booking{
		id:      uuid.New(),
		userID:  userID,
		eventID: eventID,
		status:  StatusWaiting,
	}
}

func ReconstructBooking(
	id, userID, eventID uuid.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		userID:    userID,
		eventID:   eventID,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Cancel transitions booked -> cancelled. Cancelling a waiting booking is
// not a supported path and is rejected.
func (b *Booking) Cancel() error {
	switch b.status {
	case StatusBooked:
		b.status = StatusCancelled
		return nil
	case StatusCancelled:
		return ErrAlreadyCancelled
	default:
		return ErrNotBooked
	}
}

// Promote transitions waiting -> booked when a seat frees up.
func (b *Booking) Promote() error {
	if b.status != StatusWaiting {
		return ErrNotWaiting
	}
	b.status = StatusBooked
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status == StatusBooked
}

func (b *Booking) IsWaiting() bool {
	return b.status == StatusWaiting
}

func (b *Booking) OwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) UserID() uuid.UUID    { return b.userID }
func (b *Booking) EventID() uuid.UUID   { return b.eventID }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }
