package components

import (
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler"
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler/api"
	"github.com/SlamChillz/event-ticket-booking-system/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewEventHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
