package commands

import (
	"context"

	"github.com/SlamChillz/event-ticket-booking-system/internal/domain/event"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra"
	"github.com/SlamChillz/event-ticket-booking-system/internal/infra/cache"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/clock"
	"github.com/SlamChillz/event-ticket-booking-system/internal/pkg/errs"
	"github.com/SlamChillz/event-ticket-booking-system/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDuplicateEventName = errs.New("event name already exists")
	ErrDomainValidation   = errs.New("domain validation error")
)

type InitializeEventResult struct {
	EventID   uuid.UUID
	Name      string
	Capacity  int
	Available int
}

type EventCommands interface {
	// InitializeEvent registers a new event with its full capacity open and
	// an empty waitlist.
	InitializeEvent(ctx context.Context, name string, capacity int) (*InitializeEventResult, error)
}

type eventUseCaseImpl struct {
	uow         shared.UnitOfWork
	statusCache cache.StatusCache
	clock       clock.Clock
}

func NewEventUseCase(uow shared.UnitOfWork, statusCache cache.StatusCache, clk clock.Clock) EventCommands {
	return &eventUseCaseImpl{
		uow:         uow,
		statusCache: statusCache,
		clock:       clk,
	}
}

func (u *eventUseCaseImpl) InitializeEvent(ctx context.Context, name string, capacity int) (*InitializeEventResult, error) {
	eventName, err := event.NewName(name)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	ev, err := event.NewEvent(eventName, capacity)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Events().Create(ctx, tx.DB(), ev); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateEventName
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Seed the cache so the first status read after creation is a hit. A
	// fresh row carries write version 1 (the column default).
	u.statusCache.Set(ev.ID(), cache.Snapshot{
		EventID:       ev.ID(),
		Name:          ev.Name().Value(),
		Capacity:      ev.Capacity(),
		Available:     ev.Available(),
		WaitlistCount: 0,
		Version:       1,
		AsOf:          u.clock.Now(),
	})

	return &InitializeEventResult{
		EventID:   ev.ID(),
		Name:      ev.Name().Value(),
		Capacity:  ev.Capacity(),
		Available: ev.Available(),
	}, nil
}
