package ports

import (
	"context"
	"time"

	"aegis/contexts/identity-access/user-profile-service/domain/entities"
)

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts profile identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ProfileRepository owns the shadow profile read model. Active-only lookups
// are the single soft-delete predicate; no read path bypasses them.
type ProfileRepository interface {
	FindActiveByUsername(ctx context.Context, username string) (entities.Profile, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListActive(ctx context.Context) ([]entities.Profile, error)
	Create(ctx context.Context, profile entities.Profile) error
	UpdateContact(ctx context.Context, username string, email string, fullName string, updatedAt time.Time) (entities.Profile, error)
	SoftDelete(ctx context.Context, username string, deletedAt time.Time) error
}

// RoleStore resolves event role names against the service-local catalog.
// Unknown names report ok=false rather than an error so the replicator can
// skip them.
type RoleStore interface {
	FindByName(ctx context.Context, name string) (entities.Role, bool, error)
}

// EventSubscriber registers a handler for a broker topic.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}
