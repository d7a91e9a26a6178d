package response

import (
	"time"

	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/commands"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/google/uuid"
)

type EventResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
}

type EventStatusResponse struct {
	EventID       uuid.UUID `json:"eventId"`
	Name          string    `json:"name"`
	Capacity      int       `json:"capacity"`
	Available     int       `json:"available"`
	Booked        int       `json:"booked"`
	WaitlistCount int64     `json:"waitlistCount"`
	AsOf          time.Time `json:"asOf"`
}

type EventListResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromInitializeEventResult(rm *commands.InitializeEventResult) *EventResponse {
	return &EventResponse{
		ID:        rm.EventID,
		Name:      rm.Name,
		Capacity:  rm.Capacity,
		Available: rm.Available,
	}
}

func FromEventStatusView(rm *queries.EventStatusView) *EventStatusResponse {
	return &EventStatusResponse{
		EventID:       rm.EventID,
		Name:          rm.Name,
		Capacity:      rm.Capacity,
		Available:     rm.Available,
		Booked:        rm.Capacity - rm.Available,
		WaitlistCount: rm.WaitlistCount,
		AsOf:          rm.AsOf,
	}
}

func FromEventListItem(rm *queries.EventListItem) *EventListResponse {
	return &EventListResponse{
		ID:        rm.ID,
		Name:      rm.Name,
		Capacity:  rm.Capacity,
		Available: rm.Available,
		CreatedAt: rm.CreatedAt,
	}
}
