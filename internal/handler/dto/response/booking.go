package response

import (
	"time"

	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/commands"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	BookingID  uuid.UUID `json:"bookingId"`
	Status     string    `json:"status"`
	Waitlisted bool      `json:"waitlisted"`
	Position   int64     `json:"position,omitempty"`
}

type CancelResponse struct {
	BookingID         uuid.UUID  `json:"bookingId"`
	Status            string     `json:"status"`
	PromotedBookingID *uuid.UUID `json:"promotedBookingId,omitempty"`
}

type BookingDetailResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	EventID   uuid.UUID `json:"eventId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UserEmail string    `json:"userEmail"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type WaitlistEntryResponse struct {
	Position  int       `json:"position"`
	UserID    uuid.UUID `json:"userId"`
	UserEmail string    `json:"userEmail"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func FromBookResult(rm *commands.BookResult) *BookingResponse {
	return &BookingResponse{
		BookingID:  rm.BookingID,
		Status:     rm.Status,
		Waitlisted: rm.Waitlisted,
		Position:   rm.Position,
	}
}

func FromCancelResult(rm *commands.CancelResult) *CancelResponse {
	return &CancelResponse{
		BookingID:         rm.BookingID,
		Status:            "cancelled",
		PromotedBookingID: rm.PromotedBookingID,
	}
}

func FromBookingView(rm *queries.BookingView) *BookingDetailResponse {
	return &BookingDetailResponse{
		ID:        rm.ID,
		UserID:    rm.UserID,
		EventID:   rm.EventID,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:        rm.ID,
		UserID:    rm.UserID,
		UserEmail: rm.UserEmail,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
	}
}

func FromWaitlistListItem(rm *queries.WaitlistListItem) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		Position:  rm.Position,
		UserID:    rm.UserID,
		UserEmail: rm.UserEmail,
		JoinedAt:  rm.JoinedAt,
	}
}
