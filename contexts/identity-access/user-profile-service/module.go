package userprofile

import (
	"log/slog"

	httpadapter "aegis/contexts/identity-access/user-profile-service/adapters/http"
	"aegis/contexts/identity-access/user-profile-service/adapters/memory"
	"aegis/contexts/identity-access/user-profile-service/application"
	"aegis/contexts/identity-access/user-profile-service/application/workers"
	"aegis/contexts/identity-access/user-profile-service/ports"
)

// Module is the user-profile-service composition root exposed to runtime wiring.
type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.UserRegisteredConsumer
	Store    *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Profiles    ports.ProfileRepository
	Roles       ports.RoleStore
	Subscriber  ports.EventSubscriber
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the profile service and its replication consumer.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Profiles:    deps.Profiles,
		Roles:       deps.Roles,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		Service: service,
		Logger:  deps.Logger,
	}

	consumer := workers.UserRegisteredConsumer{
		Subscriber: deps.Subscriber,
		Service:    service,
		Logger:     deps.Logger,
	}

	return Module{
		Handler:  handler,
		Consumer: consumer,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(subscriber ports.EventSubscriber, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Profiles:    store,
		Roles:       store,
		Subscriber:  subscriber,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
