package bootstrap

import (
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
