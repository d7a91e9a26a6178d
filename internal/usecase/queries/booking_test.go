//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBookingReadStore records the paging arguments it was called with.
type stubBookingReadStore struct {
	waitlist    []*queries.WaitlistListItem
	bookings    []*queries.BookingListItem
	eventExists bool

	gotLimit  int
	gotOffset int
}

func (s *stubBookingReadStore) FindByID(_ context.Context, _ uuid.UUID) (*queries.BookingView, error) {
	return nil, nil
}

func (s *stubBookingReadStore) FindByEventPaginated(_ context.Context, _ uuid.UUID, limit, offset int) ([]*queries.BookingListItem, error) {
	s.gotLimit = limit
	s.gotOffset = offset
	return s.bookings, nil
}

func (s *stubBookingReadStore) FindWaitlistPaginated(_ context.Context, _ uuid.UUID, limit, offset int) ([]*queries.WaitlistListItem, error) {
	s.gotLimit = limit
	s.gotOffset = offset
	return s.waitlist, nil
}

func (s *stubBookingReadStore) EventExists(_ context.Context, _ uuid.UUID) (bool, error) {
	return s.eventExists, nil
}

func TestListWaitlist(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("positions are 1-based across pages", func(t *testing.T) {
		store := &stubBookingReadStore{
			eventExists: true,
			waitlist: []*queries.WaitlistListItem{
				{EntryID: 21, UserID: uuid.New(), JoinedAt: now},
				{EntryID: 22, UserID: uuid.New(), JoinedAt: now.Add(time.Second)},
			},
		}
		q := queries.NewBookingQueries(store)

		items, err := q.ListWaitlist(ctx, uuid.New(), 3, 10)
		require.NoError(t, err)
		require.Len(t, items, 2)

		// Page 3 with limit 10 starts at queue position 21.
		assert.Equal(t, 21, items[0].Position)
		assert.Equal(t, 22, items[1].Position)
		assert.Equal(t, 10, store.gotLimit)
		assert.Equal(t, 20, store.gotOffset)
	})

	t.Run("unknown event", func(t *testing.T) {
		store := &stubBookingReadStore{eventExists: false}
		q := queries.NewBookingQueries(store)

		_, err := q.ListWaitlist(ctx, uuid.New(), 1, 10)
		assert.ErrorIs(t, err, queries.ErrEventNotFound)
	})

	t.Run("paging defaults applied", func(t *testing.T) {
		store := &stubBookingReadStore{eventExists: true}
		q := queries.NewBookingQueries(store)

		_, err := q.ListByEvent(ctx, uuid.New(), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, queries.DefaultListLimit, store.gotLimit)
		assert.Equal(t, 0, store.gotOffset)

		_, err = q.ListByEvent(ctx, uuid.New(), 1, queries.MaxListLimit+50)
		require.NoError(t, err)
		assert.Equal(t, queries.MaxListLimit, store.gotLimit)
	})
}
