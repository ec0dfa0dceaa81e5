package auth

import (
	"log/slog"

	httpadapter "aegis/contexts/identity-access/auth-service/adapters/http"
	"aegis/contexts/identity-access/auth-service/adapters/memory"
	"aegis/contexts/identity-access/auth-service/adapters/password"
	"aegis/contexts/identity-access/auth-service/application/commands"
	"aegis/contexts/identity-access/auth-service/application/queries"
	"aegis/contexts/identity-access/auth-service/application/workers"
	"aegis/contexts/identity-access/auth-service/ports"
)

// Module is the auth-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Users       ports.UserRepository
	Roles       ports.RoleRepository
	Outbox      ports.OutboxRepository
	Publisher   ports.EventPublisher
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the identity use-cases and transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	registerUser := commands.RegisterUserUseCase{
		Users:       deps.Users,
		Roles:       deps.Roles,
		Hasher:      deps.Hasher,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	login := commands.LoginUseCase{
		Users:  deps.Users,
		Hasher: deps.Hasher,
		Tokens: deps.Tokens,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	createRole := commands.CreateRoleUseCase{
		Roles:       deps.Roles,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	listRoles := queries.ListRolesUseCase{
		Roles: deps.Roles,
	}
	resolveAccount := queries.ResolveAccountUseCase{
		Users: deps.Users,
	}

	handler := httpadapter.Handler{
		RegisterUser:   registerUser,
		Login:          login,
		CreateRole:     createRole,
		ListRoles:      listRoles,
		ResolveAccount: resolveAccount,
		Logger:         deps.Logger,
	}

	relay := workers.OutboxRelay{
		Outbox:    deps.Outbox,
		Publisher: deps.Publisher,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}

	return Module{
		Handler:     handler,
		OutboxRelay: relay,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(tokens ports.TokenIssuer, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Users:       store,
		Roles:       store,
		Outbox:      store,
		Publisher:   publisher,
		Hasher:      password.NewBcryptHasher(),
		Tokens:      tokens,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
