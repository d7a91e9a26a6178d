package api

import (
	"errors"
	"net/http"

	reqdto "github.com/SlamChillz/event-ticket-booking-system/internal/handler/dto/request"
	resdto "github.com/SlamChillz/event-ticket-booking-system/internal/handler/dto/response"
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler/httperr"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/commands"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	eventCommands commands.EventCommands
	eventQueries  queries.EventQueries
}

func NewEventHandler(eventCommands commands.EventCommands, eventQueries queries.EventQueries) *EventHandler {
	return &EventHandler{
		eventCommands: eventCommands,
		eventQueries:  eventQueries,
	}
}

// @Summary Create event
// @Description Initialize a new event with a fixed ticket capacity
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateEventRequest true "Event request"
// @Success 201 {object} resdto.EventResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req reqdto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.eventCommands.InitializeEvent(c.Request.Context(), req.Name, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateEventName):
			httperr.AbortWithError(c, http.StatusConflict, err, "An event with this name already exists", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid event name or capacity", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromInitializeEventResult(result))
}

// @Summary Event status
// @Description Get the current availability snapshot for an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} resdto.EventStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /events/{id}/status [get]
func (h *EventHandler) GetEventStatus(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event ID format", nil)
		return
	}

	status, err := h.eventQueries.Status(c.Request.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrEventNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Event not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromEventStatusView(status))
}

// @Summary List events
// @Description List all events, newest first
// @Tags events
// @Produce json
// @Success 200 {array} resdto.EventListResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	items, err := h.eventQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.EventListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromEventListItem(item)
	}

	c.JSON(http.StatusOK, response)
}
