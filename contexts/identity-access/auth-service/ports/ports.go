package ports

import (
	"context"
	"time"

	"aegis/contexts/identity-access/auth-service/domain/entities"
)

// Clock allows deterministic testing of issuance/expiry rules.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts user/event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// PasswordHasher wraps the one-way hash contract. Only the contract is owned
// here; the primitive lives in its adapter.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, digest string) bool
}

// TokenIssuer builds compact signed bearer tokens from a subject and its
// granted authorities. Pure in (claims, secret, now).
type TokenIssuer interface {
	Issue(subject string, authorities []string, now time.Time) (string, error)
	ExpiresAt(now time.Time) time.Time
}

// RegisteredEvent is the outbound provisioning payload persisted to the
// outbox in the same transaction as the new user row.
type RegisteredEvent struct {
	EventID    string
	UserID     string
	Username   string
	Email      string
	FullName   string
	RoleNames  []string
	OccurredAt time.Time
}

// UserRepository owns credential persistence and the registration transaction
// boundary. Active-only lookups are the single soft-delete predicate; no read
// path bypasses them.
type UserRepository interface {
	// FindActiveByUsername returns a non-deleted user with roles loaded.
	FindActiveByUsername(ctx context.Context, username string) (entities.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// CreateWithOutbox must atomically persist the user, its role links and
	// the provisioning outbox row.
	CreateWithOutbox(ctx context.Context, user entities.User, event RegisteredEvent) error
}

// RoleRepository owns the role catalog.
type RoleRepository interface {
	FindByName(ctx context.Context, name entities.RoleName) (entities.Role, error)
	ListRoles(ctx context.Context) ([]entities.Role, error)
	CreateRole(ctx context.Context, role entities.Role) error
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
	// MarkOutboxFailed parks a row that can never publish (undecodable
	// payload) so it stops occupying the pending queue.
	MarkOutboxFailed(ctx context.Context, outboxID string, failedAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
