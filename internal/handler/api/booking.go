package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "github.com/SlamChillz/event-ticket-booking-system/internal/handler/dto/response"
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler/httperr"
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler/middleware"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/errs"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/commands"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// errMissingUserContext means an authenticated route ran without the auth
// middleware having stored a user id, which is a wiring bug, not a client
// error.
var errMissingUserContext = errs.New("user id missing from request context")

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Book a ticket
// @Description Book one ticket for the event, or join the waitlist when sold out
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /events/{id}/bookings [post]
func (h *BookingHandler) BookTicket(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, "Internal server error", nil)
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event ID format", nil)
		return
	}

	result, err := h.bookingCommands.Book(c.Request.Context(), userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEventNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Event not found", nil)
		case errors.Is(err, commands.ErrInvalidBookingUser):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "User does not exist", nil)
		case errors.Is(err, commands.ErrLockWaitTimeout):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Event is busy, please retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookResult(result))
}

// @Summary Cancel a booking
// @Description Cancel the caller's booked ticket; the freed seat goes to the waitlist head or back to the pool
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingUserContext, "Internal server error", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	result, err := h.bookingCommands.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrBookingNotOwned):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Booking belongs to another user", nil)
		case errors.Is(err, commands.ErrAlreadyCancelled):
			httperr.AbortWithError(c, http.StatusConflict, err, "Booking is already cancelled", nil)
		case errors.Is(err, commands.ErrCancelNotAllowed):
			httperr.AbortWithError(c, http.StatusConflict, err, "Only booked bookings can be cancelled", nil)
		case errors.Is(err, commands.ErrLockWaitTimeout):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Event is busy, please retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingDetailResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List event bookings
// @Description List non-cancelled bookings for an event in creation order
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /events/{id}/bookings [get]
func (h *BookingHandler) ListEventBookings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event ID format", nil)
		return
	}

	page, limit := pagination(c)

	items, err := h.bookingQueries.ListByEvent(c.Request.Context(), eventID, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrEventNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Event not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List event waitlist
// @Description List waitlist entries for an event in queue order
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} resdto.WaitlistEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /events/{id}/waitlist [get]
func (h *BookingHandler) ListEventWaitlist(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event ID format", nil)
		return
	}

	page, limit := pagination(c)

	items, err := h.bookingQueries.ListWaitlist(c.Request.Context(), eventID, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrEventNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Event not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	response := make([]*resdto.WaitlistEntryResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromWaitlistListItem(item)
	}

	c.JSON(http.StatusOK, response)
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	return page, limit
}
