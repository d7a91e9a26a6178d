package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type EventStatusView struct {
	EventID       uuid.UUID `json:"event_id"`
	Name          string    `json:"name"`
	Capacity      int       `json:"capacity"`
	Available     int       `json:"available"`
	WaitlistCount int64     `json:"waitlist_count"`
	// Version orders this view against cached snapshots; it is internal
	// bookkeeping, not part of the API surface.
	Version int64     `json:"-"`
	AsOf    time.Time `json:"as_of"`
}

type EventListItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

type EventView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingView struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	EventID   uuid.UUID `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type WaitlistListItem struct {
	Position  int       `json:"position"`
	EntryID   int64     `json:"entry_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
	JoinedAt  time.Time `json:"joined_at"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
