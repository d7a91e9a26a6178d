//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/booking"
	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/event"
	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/waitlist"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/cache"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/clock"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/commands"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory store standing in for the transactional backend. All methods
// mutate state directly; tests that need rollback behavior inject failures
// before checking that no post-commit effect happened.
type fakeStore struct {
	event    *shared.EventSnapshot
	bookings map[uuid.UUID]*bookingRow
	waitlist []waitlistRow
	nextID   int64
	now      time.Time

	failWaitlistInsert bool
}

type bookingRow struct {
	userID  uuid.UUID
	eventID uuid.UUID
	status  booking.Status
	created time.Time
}

type waitlistRow struct {
	id        int64
	bookingID uuid.UUID
	userID    uuid.UUID
	createdAt time.Time
}

func newFakeStore(capacity, available int) *fakeStore {
	return &fakeStore{
		event: &shared.EventSnapshot{
			ID:        uuid.New(),
			Name:      "Go Conference",
			Capacity:  capacity,
			Available: available,
			Version:   1,
		},
		bookings: make(map[uuid.UUID]*bookingRow),
		nextID:   1,
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) addBooked(userID uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.bookings[id] = &bookingRow{userID: userID, eventID: s.event.ID, status: booking.StatusBooked, created: s.tick()}
	return id
}

func (s *fakeStore) addWaiting(userID uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.bookings[id] = &bookingRow{userID: userID, eventID: s.event.ID, status: booking.StatusWaiting, created: s.tick()}
	s.waitlist = append(s.waitlist, waitlistRow{id: s.nextID, bookingID: id, userID: userID, createdAt: s.now})
	s.nextID++
	return id
}

func (s *fakeStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

// shared.UnitOfWork

type fakeUoW struct {
	store *fakeStore

	// withinErr is returned without running the transaction, standing in
	// for failures raised by the transaction machinery itself.
	withinErr error
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.withinErr != nil {
		return u.withinErr
	}
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Events() shared.EventRepository     { return &fakeEvents{store: t.store} }
func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookings{store: t.store} }
func (t *fakeTx) Waitlist() shared.WaitlistRepository {
	return &fakeWaitlist{store: t.store}
}
func (t *fakeTx) Users() shared.UserRepository { return nil }
func (t *fakeTx) Reads() shared.CommandReads   { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                  { return nil }

type fakeEvents struct {
	store *fakeStore
}

func (r *fakeEvents) Create(_ context.Context, _ db.DBTX, _ *event.Event) (uuid.UUID, error) {
	panic("not used")
}

func (r *fakeEvents) LockForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.EventSnapshot, error) {
	if r.store.event == nil || r.store.event.ID != id {
		return nil, infra.WrapRepoErr("event not found", errors.New("no rows"), infra.KindNotFound)
	}
	r.store.event.Version++
	snap := *r.store.event
	return &snap, nil
}

func (r *fakeEvents) AddAvailable(_ context.Context, _ db.DBTX, id uuid.UUID, delta int) error {
	if r.store.event == nil || r.store.event.ID != id {
		return infra.WrapRepoErr("event not found", nil, infra.KindNotFound)
	}
	r.store.event.Available += delta
	return nil
}

type fakeBookings struct {
	store *fakeStore
}

func (r *fakeBookings) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	r.store.bookings[b.ID()] = &bookingRow{
		userID:  b.UserID(),
		eventID: b.EventID(),
		status:  b.Status(),
		created: r.store.tick(),
	}
	return b.ID(), nil
}

func (r *fakeBookings) MarkCancelled(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	row, ok := r.store.bookings[id]
	if !ok || row.status != booking.StatusBooked {
		return infra.WrapRepoErr("booking not in booked state", nil, infra.KindNotFound)
	}
	row.status = booking.StatusCancelled
	return nil
}

func (r *fakeBookings) MarkBooked(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	row, ok := r.store.bookings[id]
	if !ok || row.status != booking.StatusWaiting {
		return infra.WrapRepoErr("booking not in waiting state", nil, infra.KindNotFound)
	}
	row.status = booking.StatusBooked
	return nil
}

type fakeWaitlist struct {
	store *fakeStore
}

func (r *fakeWaitlist) Insert(_ context.Context, _ db.DBTX, entry *waitlist.Entry) (int64, error) {
	if r.store.failWaitlistInsert {
		return 0, infra.WrapRepoErr("insert failed", errors.New("boom"))
	}
	id := r.store.nextID
	r.store.nextID++
	r.store.waitlist = append(r.store.waitlist, waitlistRow{
		id:        id,
		bookingID: entry.BookingID(),
		userID:    entry.UserID(),
		createdAt: r.store.tick(),
	})
	return id, nil
}

func (r *fakeWaitlist) HeadForUpdate(_ context.Context, _ db.DBTX, _ uuid.UUID) (*shared.WaitlistHead, error) {
	if len(r.store.waitlist) == 0 {
		return nil, nil
	}
	head := r.store.waitlist[0]
	for _, row := range r.store.waitlist[1:] {
		if row.createdAt.Before(head.createdAt) ||
			(row.createdAt.Equal(head.createdAt) && row.id < head.id) {
			head = row
		}
	}
	return &shared.WaitlistHead{
		EntryID:   head.id,
		BookingID: head.bookingID,
		UserID:    head.userID,
		CreatedAt: head.createdAt,
	}, nil
}

func (r *fakeWaitlist) Delete(_ context.Context, _ db.DBTX, entryID int64) error {
	for i, row := range r.store.waitlist {
		if row.id == entryID {
			r.store.waitlist = append(r.store.waitlist[:i], r.store.waitlist[i+1:]...)
			return nil
		}
	}
	return infra.WrapRepoErr("entry not found", nil, infra.KindNotFound)
}

func (r *fakeWaitlist) CountByEvent(_ context.Context, _ db.DBTX, _ uuid.UUID) (int64, error) {
	return int64(len(r.store.waitlist)), nil
}

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) EventByID(_ context.Context, id uuid.UUID) (*shared.EventSnapshot, error) {
	if r.store.event == nil || r.store.event.ID != id {
		return nil, infra.WrapRepoErr("event not found", errors.New("no rows"), infra.KindNotFound)
	}
	snap := *r.store.event
	return &snap, nil
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", errors.New("no rows"), infra.KindNotFound)
	}
	return &shared.BookingSnapshot{
		ID:        id,
		UserID:    row.userID,
		EventID:   row.eventID,
		Status:    string(row.status),
		CreatedAt: row.created,
	}, nil
}

func newBookingCommands(store *fakeStore) (commands.BookingCommands, *cache.MemoryStatusCache) {
	statusCache := cache.NewMemoryStatusCache()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return commands.NewBookingUseCase(&fakeUoW{store: store}, statusCache, clk), statusCache
}

func TestBook(t *testing.T) {
	ctx := context.Background()

	t.Run("books a seat while capacity remains", func(t *testing.T) {
		store := newFakeStore(2, 2)
		uc, statusCache := newBookingCommands(store)
		userID := uuid.New()

		result, err := uc.Book(ctx, userID, store.event.ID)
		require.NoError(t, err)

		assert.False(t, result.Waitlisted)
		assert.Equal(t, string(booking.StatusBooked), result.Status)
		assert.Zero(t, result.Position)
		assert.Equal(t, 1, store.event.Available)

		row := store.bookings[result.BookingID]
		require.NotNil(t, row)
		assert.Equal(t, booking.StatusBooked, row.status)
		assert.Equal(t, userID, row.userID)
		assert.Empty(t, store.waitlist)

		snap, ok := statusCache.Get(store.event.ID)
		require.True(t, ok, "a committed booking must refresh the cache")
		assert.Equal(t, 1, snap.Available)
		assert.EqualValues(t, 0, snap.WaitlistCount)
	})

	t.Run("joins the waitlist when sold out", func(t *testing.T) {
		store := newFakeStore(1, 0)
		uc, statusCache := newBookingCommands(store)
		userID := uuid.New()

		result, err := uc.Book(ctx, userID, store.event.ID)
		require.NoError(t, err)

		assert.True(t, result.Waitlisted)
		assert.Equal(t, string(booking.StatusWaiting), result.Status)
		assert.EqualValues(t, 1, result.Position)
		assert.Equal(t, 0, store.event.Available, "waitlisting must not touch the available count")

		row := store.bookings[result.BookingID]
		require.NotNil(t, row)
		assert.Equal(t, booking.StatusWaiting, row.status)
		require.Len(t, store.waitlist, 1)
		assert.Equal(t, result.BookingID, store.waitlist[0].bookingID)

		snap, ok := statusCache.Get(store.event.ID)
		require.True(t, ok)
		assert.EqualValues(t, 1, snap.WaitlistCount)
	})

	t.Run("reports the queue position at the tail", func(t *testing.T) {
		store := newFakeStore(1, 0)
		uc, _ := newBookingCommands(store)
		store.addWaiting(uuid.New())
		store.addWaiting(uuid.New())

		result, err := uc.Book(ctx, uuid.New(), store.event.ID)
		require.NoError(t, err)

		assert.True(t, result.Waitlisted)
		assert.EqualValues(t, 3, result.Position)
	})

	t.Run("unknown event", func(t *testing.T) {
		store := newFakeStore(1, 1)
		uc, statusCache := newBookingCommands(store)

		result, err := uc.Book(ctx, uuid.New(), uuid.New())
		require.ErrorIs(t, err, commands.ErrEventNotFound)
		assert.Nil(t, result)
		assert.Equal(t, 0, statusCache.Len(), "a failed request must not install a snapshot")
	})

	t.Run("failure inside the transaction leaves the cache alone", func(t *testing.T) {
		store := newFakeStore(1, 0)
		store.failWaitlistInsert = true
		uc, statusCache := newBookingCommands(store)

		_, err := uc.Book(ctx, uuid.New(), store.event.ID)
		require.Error(t, err)
		assert.Equal(t, 0, statusCache.Len())
	})
}

func TestSnapshotVersioning(t *testing.T) {
	ctx := context.Background()

	t.Run("a late install of an older snapshot cannot clobber a newer one", func(t *testing.T) {
		store := newFakeStore(1, 1)
		uc, statusCache := newBookingCommands(store)

		_, err := uc.Book(ctx, uuid.New(), store.event.ID)
		require.NoError(t, err)

		older, ok := statusCache.Get(store.event.ID)
		require.True(t, ok)
		assert.Equal(t, 0, older.Available)

		_, err = uc.Book(ctx, uuid.New(), store.event.ID)
		require.NoError(t, err)

		// Replay the first install, as a caller parked between its commit
		// and its cache write would.
		statusCache.Set(store.event.ID, older)

		snap, ok := statusCache.Get(store.event.ID)
		require.True(t, ok)
		assert.EqualValues(t, 1, snap.WaitlistCount, "the newer snapshot must survive the stale replay")
		assert.Greater(t, snap.Version, older.Version)
	})

	t.Run("snapshot versions follow the write order", func(t *testing.T) {
		store := newFakeStore(1, 1)
		uc, statusCache := newBookingCommands(store)
		owner := uuid.New()

		booked, err := uc.Book(ctx, owner, store.event.ID)
		require.NoError(t, err)
		first, _ := statusCache.Get(store.event.ID)

		_, err = uc.Cancel(ctx, owner, booked.BookingID)
		require.NoError(t, err)
		second, _ := statusCache.Get(store.event.ID)

		assert.Greater(t, second.Version, first.Version)
		assert.Equal(t, 1, second.Available)
	})
}

func TestLockWaitTimeout(t *testing.T) {
	ctx := context.Background()

	newTimeoutCommands := func(store *fakeStore) (commands.BookingCommands, *cache.MemoryStatusCache) {
		statusCache := cache.NewMemoryStatusCache()
		clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		uow := &fakeUoW{
			store:     store,
			withinErr: infra.WrapRepoErr("timed out acquiring the event lock", errors.New("SQLSTATE 55P03"), infra.KindLockTimeout),
		}
		return commands.NewBookingUseCase(uow, statusCache, clk), statusCache
	}

	t.Run("booking surfaces the typed timeout", func(t *testing.T) {
		store := newFakeStore(1, 1)
		uc, statusCache := newTimeoutCommands(store)

		result, err := uc.Book(ctx, uuid.New(), store.event.ID)
		assert.ErrorIs(t, err, commands.ErrLockWaitTimeout)
		assert.Nil(t, result)
		assert.Equal(t, 0, statusCache.Len(), "a timed-out attempt must not install a snapshot")
	})

	t.Run("cancellation surfaces the typed timeout", func(t *testing.T) {
		store := newFakeStore(1, 0)
		uc, statusCache := newTimeoutCommands(store)
		userID := uuid.New()
		bookingID := store.addBooked(userID)

		result, err := uc.Cancel(ctx, userID, bookingID)
		assert.ErrorIs(t, err, commands.ErrLockWaitTimeout)
		assert.Nil(t, result)
		assert.Equal(t, 0, statusCache.Len())
		assert.Equal(t, booking.StatusBooked, store.bookings[bookingID].status)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel with empty waitlist frees the seat", func(t *testing.T) {
		store := newFakeStore(2, 1)
		uc, statusCache := newBookingCommands(store)
		userID := uuid.New()
		bookingID := store.addBooked(userID)

		result, err := uc.Cancel(ctx, userID, bookingID)
		require.NoError(t, err)

		assert.Nil(t, result.PromotedBookingID)
		assert.Equal(t, 2, store.event.Available)
		assert.Equal(t, booking.StatusCancelled, store.bookings[bookingID].status)

		snap, ok := statusCache.Get(store.event.ID)
		require.True(t, ok)
		assert.Equal(t, 2, snap.Available)
	})

	t.Run("cancel hands the seat to the waitlist head", func(t *testing.T) {
		store := newFakeStore(1, 0)
		uc, statusCache := newBookingCommands(store)
		owner := uuid.New()
		bookingID := store.addBooked(owner)
		waitingID := store.addWaiting(uuid.New())

		result, err := uc.Cancel(ctx, owner, bookingID)
		require.NoError(t, err)

		require.NotNil(t, result.PromotedBookingID)
		assert.Equal(t, waitingID, *result.PromotedBookingID)
		assert.Equal(t, booking.StatusBooked, store.bookings[waitingID].status)
		assert.Equal(t, 0, store.event.Available, "a promoted seat never returns to the pool")
		assert.Empty(t, store.waitlist)

		snap, ok := statusCache.Get(store.event.ID)
		require.True(t, ok)
		assert.Equal(t, 0, snap.Available)
		assert.EqualValues(t, 0, snap.WaitlistCount)
	})

	t.Run("promotions drain the queue in FIFO order", func(t *testing.T) {
		store := newFakeStore(2, 0)
		uc, _ := newBookingCommands(store)
		ownerA := uuid.New()
		ownerB := uuid.New()
		bookedA := store.addBooked(ownerA)
		bookedB := store.addBooked(ownerB)
		firstWaiting := store.addWaiting(uuid.New())
		secondWaiting := store.addWaiting(uuid.New())

		resultA, err := uc.Cancel(ctx, ownerA, bookedA)
		require.NoError(t, err)
		require.NotNil(t, resultA.PromotedBookingID)
		assert.Equal(t, firstWaiting, *resultA.PromotedBookingID)

		resultB, err := uc.Cancel(ctx, ownerB, bookedB)
		require.NoError(t, err)
		require.NotNil(t, resultB.PromotedBookingID)
		assert.Equal(t, secondWaiting, *resultB.PromotedBookingID)

		assert.Empty(t, store.waitlist)
		assert.Equal(t, 0, store.event.Available)
	})

	t.Run("unknown booking", func(t *testing.T) {
		store := newFakeStore(1, 1)
		uc, _ := newBookingCommands(store)

		_, err := uc.Cancel(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("only the owner can cancel", func(t *testing.T) {
		store := newFakeStore(1, 0)
		uc, _ := newBookingCommands(store)
		bookingID := store.addBooked(uuid.New())

		_, err := uc.Cancel(ctx, uuid.New(), bookingID)
		assert.ErrorIs(t, err, commands.ErrBookingNotOwned)
		assert.Equal(t, booking.StatusBooked, store.bookings[bookingID].status)
		assert.Equal(t, 0, store.event.Available)
	})

	t.Run("cancelling twice", func(t *testing.T) {
		store := newFakeStore(1, 0)
		uc, _ := newBookingCommands(store)
		userID := uuid.New()
		bookingID := store.addBooked(userID)

		_, err := uc.Cancel(ctx, userID, bookingID)
		require.NoError(t, err)

		_, err = uc.Cancel(ctx, userID, bookingID)
		assert.ErrorIs(t, err, commands.ErrAlreadyCancelled)
	})

	t.Run("waiting bookings cannot be cancelled", func(t *testing.T) {
		store := newFakeStore(1, 0)
		uc, _ := newBookingCommands(store)
		userID := uuid.New()
		waitingID := store.addWaiting(userID)

		_, err := uc.Cancel(ctx, userID, waitingID)
		assert.ErrorIs(t, err, commands.ErrCancelNotAllowed)
		assert.Equal(t, booking.StatusWaiting, store.bookings[waitingID].status)
		require.Len(t, store.waitlist, 1)
	})
}
