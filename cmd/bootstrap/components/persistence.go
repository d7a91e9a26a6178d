package components

import (
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/cache"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/db"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/readstore"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/uow"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
	),
	readstoreModule,
	uowModule,
	cacheModule,
)

// Write repositories are created per-transaction by the unit of work, so
// only the read side and the UoW itself are container-managed.
var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewEventReadStore,
			fx.As(new(queries.EventReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingListReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

var cacheModule = fx.Module("persistence/cache",
	fx.Provide(
		fx.Annotate(
			cache.NewMemoryStatusCache,
			fx.As(new(cache.StatusCache)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
