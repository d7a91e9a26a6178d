//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/cache"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/clock"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"
	queriesmock "github.com/SlamChillz/event-ticket-booking-system/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newFixture := func(t *testing.T) (*queriesmock.MockEventReadStore, *cache.MemoryStatusCache, queries.EventQueries) {
		ctrl := gomock.NewController(t)
		readStore := queriesmock.NewMockEventReadStore(ctrl)
		statusCache := cache.NewMemoryStatusCache()
		q := queries.NewEventQueries(readStore, statusCache, clock.NewMockClock(now))
		return readStore, statusCache, q
	}

	t.Run("cache hit skips the store", func(t *testing.T) {
		_, statusCache, q := newFixture(t)
		eventID := uuid.New()

		statusCache.Set(eventID, cache.Snapshot{
			EventID:       eventID,
			Name:          "Cached Event",
			Capacity:      100,
			Available:     40,
			WaitlistCount: 2,
			AsOf:          now,
		})

		view, err := q.Status(ctx, eventID)
		require.NoError(t, err)

		assert.Equal(t, "Cached Event", view.Name)
		assert.Equal(t, 40, view.Available)
		assert.EqualValues(t, 2, view.WaitlistCount)
		assert.Equal(t, now, view.AsOf)
	})

	t.Run("cache miss falls through and repopulates", func(t *testing.T) {
		readStore, statusCache, q := newFixture(t)
		eventID := uuid.New()

		readStore.EXPECT().
			StatusByID(ctx, eventID).
			Return(&queries.EventStatusView{
				EventID:       eventID,
				Name:          "Fresh Event",
				Capacity:      50,
				Available:     50,
				WaitlistCount: 0,
			}, nil)

		view, err := q.Status(ctx, eventID)
		require.NoError(t, err)
		assert.Equal(t, "Fresh Event", view.Name)
		assert.Equal(t, now, view.AsOf, "the miss path stamps the snapshot time")

		snap, ok := statusCache.Get(eventID)
		require.True(t, ok, "the miss path must repopulate the cache")
		assert.Equal(t, 50, snap.Available)

		// Second read is served from the cache; no further store call expected.
		again, err := q.Status(ctx, eventID)
		require.NoError(t, err)
		assert.Equal(t, view, again)
	})

	t.Run("unknown event", func(t *testing.T) {
		readStore, statusCache, q := newFixture(t)
		eventID := uuid.New()

		readStore.EXPECT().
			StatusByID(ctx, eventID).
			Return(nil, infra.WrapRepoErr("event not found", assert.AnError, infra.KindNotFound))

		_, err := q.Status(ctx, eventID)
		assert.ErrorIs(t, err, queries.ErrEventNotFound)
		assert.Equal(t, 0, statusCache.Len())
	})

	t.Run("list delegates to the store", func(t *testing.T) {
		readStore, _, q := newFixture(t)

		items := []*queries.EventListItem{
			{ID: uuid.New(), Name: "A", Capacity: 10, Available: 10},
			{ID: uuid.New(), Name: "B", Capacity: 20, Available: 0},
		}
		readStore.EXPECT().ListAll(ctx).Return(items, nil)

		got, err := q.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, items, got)
	})
}
