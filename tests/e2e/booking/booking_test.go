//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/user"
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler/dto/request"
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler/dto/response"
	"github.com/SlamChillz/event-ticket-booking-system/tests/common/authtest"
	"github.com/SlamChillz/event-ticket-booking-system/tests/common/dbtest"
	"github.com/SlamChillz/event-ticket-booking-system/tests/common/httptest"
	"github.com/SlamChillz/event-ticket-booking-system/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	eventsURL      = "/api/events"
	eventStatusURL = "/api/events/%s/status"
	bookingsURL    = "/api/events/%s/bookings"
	waitlistURL    = "/api/events/%s/waitlist"
	cancelURL      = "/api/bookings/%s/cancel"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) bookTicket(t *testing.T, eventID, token string) response.BookingResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(bookingsURL, eventID), nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booked response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &booked))
	return booked
}

func (s *BookingSuite) cancelBooking(t *testing.T, bookingID uuid.UUID, token string) response.CancelResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, bookingID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cancelled response.CancelResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &cancelled))
	return cancelled
}

func (s *BookingSuite) eventStatus(t *testing.T, eventID string) response.EventStatusResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(eventStatusURL, eventID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var status response.EventStatusResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &status))
	return status
}

func (s *BookingSuite) TestEventLifecycle() {
	s.Run("admin creates an event and reads its status", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, eventsURL,
			request.CreateEventRequest{Name: "Go Conference", Capacity: 3}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.EventResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, 3, created.Capacity)
		require.Equal(t, 3, created.Available)

		status := s.eventStatus(t, created.ID.String())
		want := response.EventStatusResponse{
			EventID:   created.ID,
			Name:      "Go Conference",
			Capacity:  3,
			Available: 3,
		}
		if diff := cmp.Diff(want, status, cmpopts.IgnoreFields(response.EventStatusResponse{}, "AsOf")); diff != "" {
			t.Errorf("status mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("duplicate event names conflict case-insensitively", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, eventsURL,
			request.CreateEventRequest{Name: "Summer Fest", Capacity: 10}, token)
		require.Equal(t, http.StatusCreated, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, eventsURL,
			request.CreateEventRequest{Name: "summer fest", Capacity: 10}, token)
		require.Equal(t, http.StatusConflict, w2.Code, w2.Body.String())
	})

	s.Run("members cannot create events", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, eventsURL,
			request.CreateEventRequest{Name: "Rogue Event", Capacity: 10}, token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("invalid capacity is rejected", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, eventsURL,
			request.CreateEventRequest{Name: "Huge Event", Capacity: 200_000}, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})
}

func (s *BookingSuite) TestBookAndWaitlist() {
	s.Run("booking decrements availability and sold-out requests join the queue", func() {
		t := s.T()

		eventID := dbtest.CreateTestEvent(t, s.DB, "Small Venue", 1, 1)

		tokenA := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))
		tokenB := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", string(user.RoleMember))

		bookedA := s.bookTicket(t, eventID.String(), tokenA)
		require.False(t, bookedA.Waitlisted)
		require.Equal(t, "booked", bookedA.Status)

		bookedB := s.bookTicket(t, eventID.String(), tokenB)
		require.True(t, bookedB.Waitlisted)
		require.Equal(t, "waiting", bookedB.Status)
		require.EqualValues(t, 1, bookedB.Position)

		status := s.eventStatus(t, eventID.String())
		require.Equal(t, 0, status.Available)
		require.Equal(t, 1, status.Booked)
		require.EqualValues(t, 1, status.WaitlistCount)
	})

	s.Run("booking an unknown event fails", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(bookingsURL, uuid.New()), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("booking requires authentication", func() {
		t := s.T()

		eventID := dbtest.CreateTestEvent(t, s.DB, "Open Event", 5, 5)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(bookingsURL, eventID), nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}

func (s *BookingSuite) TestCancelAndPromotion() {
	s.Run("cancel with an empty waitlist frees the seat", func() {
		t := s.T()

		eventID := dbtest.CreateTestEvent(t, s.DB, "Quiet Night", 2, 2)
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))

		booked := s.bookTicket(t, eventID.String(), token)
		cancelled := s.cancelBooking(t, booked.BookingID, token)
		require.Nil(t, cancelled.PromotedBookingID)

		status := s.eventStatus(t, eventID.String())
		require.Equal(t, 2, status.Available)
	})

	s.Run("cancellations promote waiting users in FIFO order", func() {
		t := s.T()

		eventID := dbtest.CreateTestEvent(t, s.DB, "Tiny Club", 1, 1)

		tokenA := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))
		tokenB := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", string(user.RoleMember))
		tokenC := authtest.CreateAndLogin(t, s.DB, s.Router, "carol@example.com", string(user.RoleMember))

		bookedA := s.bookTicket(t, eventID.String(), tokenA)
		require.False(t, bookedA.Waitlisted)

		bookedB := s.bookTicket(t, eventID.String(), tokenB)
		require.True(t, bookedB.Waitlisted)
		require.EqualValues(t, 1, bookedB.Position)

		bookedC := s.bookTicket(t, eventID.String(), tokenC)
		require.True(t, bookedC.Waitlisted)
		require.EqualValues(t, 2, bookedC.Position)

		// A cancels; B (the queue head) takes the seat and the pool stays empty.
		cancelledA := s.cancelBooking(t, bookedA.BookingID, tokenA)
		require.NotNil(t, cancelledA.PromotedBookingID)
		require.Equal(t, bookedB.BookingID, *cancelledA.PromotedBookingID)

		status := s.eventStatus(t, eventID.String())
		require.Equal(t, 0, status.Available)
		require.EqualValues(t, 1, status.WaitlistCount)

		// B cancels the promoted booking; C is next.
		cancelledB := s.cancelBooking(t, bookedB.BookingID, tokenB)
		require.NotNil(t, cancelledB.PromotedBookingID)
		require.Equal(t, bookedC.BookingID, *cancelledB.PromotedBookingID)

		// C cancels with nobody waiting; the seat finally frees up.
		cancelledC := s.cancelBooking(t, bookedC.BookingID, tokenC)
		require.Nil(t, cancelledC.PromotedBookingID)

		status = s.eventStatus(t, eventID.String())
		require.Equal(t, 1, status.Available)
		require.EqualValues(t, 0, status.WaitlistCount)
	})

	s.Run("only the owner can cancel a booking", func() {
		t := s.T()

		eventID := dbtest.CreateTestEvent(t, s.DB, "Private Show", 1, 1)
		tokenA := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))
		tokenB := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", string(user.RoleMember))

		booked := s.bookTicket(t, eventID.String(), tokenA)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(cancelURL, booked.BookingID), nil, tokenB)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		status := s.eventStatus(t, eventID.String())
		require.Equal(t, 0, status.Available, "a rejected cancel must not free the seat")
	})

	s.Run("cancelling twice conflicts", func() {
		t := s.T()

		eventID := dbtest.CreateTestEvent(t, s.DB, "One Night Only", 1, 1)
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))

		booked := s.bookTicket(t, eventID.String(), token)
		s.cancelBooking(t, booked.BookingID, token)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(cancelURL, booked.BookingID), nil, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("waiting bookings cannot be cancelled", func() {
		t := s.T()

		eventID := dbtest.CreateTestEvent(t, s.DB, "Waitlist Only", 1, 0)
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))

		booked := s.bookTicket(t, eventID.String(), token)
		require.True(t, booked.Waitlisted)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(cancelURL, booked.BookingID), nil, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}

func (s *BookingSuite) TestConcurrentBooking() {
	s.Run("concurrent bookings never oversell", func() {
		t := s.T()

		const capacity = 5
		const requesters = 20

		eventID := dbtest.CreateTestEvent(t, s.DB, "Hot Ticket", capacity, capacity)

		tokens := make([]string, requesters)
		for i := range tokens {
			email := fmt.Sprintf("user%02d@example.com", i)
			tokens[i] = authtest.CreateAndLogin(t, s.DB, s.Router, email, string(user.RoleMember))
		}

		// Assertions happen after Wait; failing inside a goroutine would
		// call FailNow off the test goroutine.
		recorders := make([]*nethttptest.ResponseRecorder, requesters)
		var wg sync.WaitGroup
		for i := 0; i < requesters; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				recorders[n] = httptest.PerformRequest(t, s.Router, http.MethodPost,
					fmt.Sprintf(bookingsURL, eventID), nil, tokens[n])
			}(i)
		}
		wg.Wait()

		var booked, waitlisted int
		for _, w := range recorders {
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			var r response.BookingResponse
			require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &r))
			if r.Waitlisted {
				waitlisted++
			} else {
				booked++
			}
		}
		require.Equal(t, capacity, booked, "exactly capacity requests may win a seat")
		require.Equal(t, requesters-capacity, waitlisted)

		status := s.eventStatus(t, eventID.String())
		require.Equal(t, 0, status.Available)
		require.Equal(t, capacity, status.Booked)
		require.EqualValues(t, requesters-capacity, status.WaitlistCount)

		// The waitlist endpoint reports the same queue with 1-based positions.
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(waitlistURL, eventID)+"?limit=200", nil, tokens[0])
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var entries []response.WaitlistEntryResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &entries))
		require.Len(t, entries, requesters-capacity)
		for i, entry := range entries {
			require.Equal(t, i+1, entry.Position)
		}
	})
}
