package queries

import (
	"context"

	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// ListByEvent returns non-cancelled bookings ordered by creation time.
	ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]*BookingListItem, error)
	// ListWaitlist returns entries in queue order with 1-based positions.
	ListWaitlist(ctx context.Context, eventID uuid.UUID, page, limit int) ([]*WaitlistListItem, error)
}

type BookingListReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByEventPaginated(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]*BookingListItem, error)
	FindWaitlistPaginated(ctx context.Context, eventID uuid.UUID, limit, offset int) ([]*WaitlistListItem, error)
	EventExists(ctx context.Context, eventID uuid.UUID) (bool, error)
}

type bookingQueriesImpl struct {
	readStore BookingListReadStore
}

func NewBookingQueries(readStore BookingListReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByEvent(ctx context.Context, eventID uuid.UUID, page, limit int) ([]*BookingListItem, error) {
	page = ValidatePage(page)
	limit = ValidateLimit(limit)

	if err := q.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	return q.readStore.FindByEventPaginated(ctx, eventID, limit, Offset(page, limit))
}

func (q *bookingQueriesImpl) ListWaitlist(ctx context.Context, eventID uuid.UUID, page, limit int) ([]*WaitlistListItem, error) {
	page = ValidatePage(page)
	limit = ValidateLimit(limit)

	if err := q.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	items, err := q.readStore.FindWaitlistPaginated(ctx, eventID, limit, Offset(page, limit))
	if err != nil {
		return nil, err
	}

	// Positions are 1-based across the whole queue, not per page.
	base := Offset(page, limit)
	for i, item := range items {
		item.Position = base + i + 1
	}

	return items, nil
}

func (q *bookingQueriesImpl) requireEvent(ctx context.Context, eventID uuid.UUID) error {
	exists, err := q.readStore.EventExists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEventNotFound
	}
	return nil
}
