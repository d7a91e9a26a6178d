package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("event name is required")
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	ErrCapacityTooBig  = errors.New("capacity cannot exceed 100,000")
	ErrSoldOut         = errors.New("no tickets available")
	ErrAtCapacity      = errors.New("available count cannot exceed capacity")
)

// MaxCapacity bounds a single event's inventory.
const MaxCapacity = 100_000

// Event is a bookable resource with a fixed total capacity and a mutable
// available count. The available count is only ever mutated while the
// caller holds the event's exclusive row lock inside a transaction.
type Event struct {
	id        uuid.UUID
	name      Name
	capacity  int
	available int
	createdAt time.Time
	updatedAt time.Time
}

func NewEvent(name Name, capacity int) (*Event, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if capacity > MaxCapacity {
		return nil, ErrCapacityTooBig
	}

	return &Event{
		id:        uuid.New(),
		name:      name,
		capacity:  capacity,
		available: capacity,
	}, nil
}

func ReconstructEvent(
	id uuid.UUID,
	name Name,
	capacity, available int,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		id:        id,
		name:      name,
		capacity:  capacity,
		available: available,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Reserve consumes one unit of capacity.
func (e *Event) Reserve() error {
	if e.available <= 0 {
		return ErrSoldOut
	}
	e.available--
	return nil
}

// Release returns one unit of capacity to the pool.
func (e *Event) Release() error {
	if e.available >= e.capacity {
		return ErrAtCapacity
	}
	e.available++
	return nil
}

func (e *Event) IsSoldOut() bool {
	return e.available <= 0
}

func (e *Event) ID() uuid.UUID        { return e.id }
func (e *Event) Name() Name           { return e.name }
func (e *Event) Capacity() int        { return e.capacity }
func (e *Event) Available() int       { return e.available }
func (e *Event) CreatedAt() time.Time { return e.createdAt }
func (e *Event) UpdatedAt() time.Time { return e.updatedAt }
