package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"aegis/contexts/identity-access/auth-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	"aegis/contexts/identity-access/auth-service/ports"
	contractsv1 "aegis/contracts/gen/events/v1"
)

type outboxRecord struct {
	OutboxID  string
	EventType string
	Payload   []byte
	Status    string
	CreatedAt time.Time
	SentAt    *time.Time
}

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	outboxStatusFailed  = "failed"
)

// Store is the development/testing adapter backing every auth-service port.
type Store struct {
	mu sync.RWMutex

	usersByUsername map[string]entities.User
	rolesByName     map[entities.RoleName]entities.Role
	outbox          []outboxRecord
}

// NewStore seeds the closed role catalog the way production migrations do.
func NewStore() *Store {
	s := &Store{
		usersByUsername: make(map[string]entities.User),
		rolesByName:     make(map[entities.RoleName]entities.Role),
	}
	for _, seed := range []struct {
		name        entities.RoleName
		description string
	}{
		{entities.RoleUser, "Default role for registered users"},
		{entities.RoleAdmin, "Administrative access"},
		{entities.RoleModerator, "Content moderation access"},
	} {
		s.rolesByName[seed.name] = entities.Role{
			RoleID:      uuid.NewString(),
			Name:        seed.name,
			Description: seed.description,
			Active:      true,
		}
	}
	return s
}

func (s *Store) FindActiveByUsername(_ context.Context, username string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByUsername[username]
	if !ok || user.Deleted {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *Store) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.usersByUsername[username]
	return ok, nil
}

func (s *Store) CreateWithOutbox(_ context.Context, user entities.User, event ports.RegisteredEvent) error {
	payload, err := marshalRegisteredEnvelope(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByUsername[user.Username]; ok {
		return domainerrors.ErrUsernameTaken
	}
	s.usersByUsername[user.Username] = cloneUser(user)
	s.outbox = append(s.outbox, outboxRecord{
		OutboxID:  event.EventID,
		EventType: contractsv1.EventTypeUserRegistered,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: event.OccurredAt.UTC(),
	})
	return nil
}

// AssignRole attaches an additional catalog role to an existing user. Used by
// operational tooling and tests to provision elevated accounts.
func (s *Store) AssignRole(username string, name entities.RoleName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByUsername[username]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	role, ok := s.rolesByName[name]
	if !ok {
		return domainerrors.ErrRoleNotFound
	}
	for _, existing := range user.Roles {
		if existing.Name == name {
			return nil
		}
	}
	user.Roles = append(user.Roles, role)
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) FindByName(_ context.Context, name entities.RoleName) (entities.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.rolesByName[name]
	if !ok {
		return entities.Role{}, domainerrors.ErrRoleNotFound
	}
	return role, nil
}

func (s *Store) ListRoles(_ context.Context) ([]entities.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Role, 0, len(s.rolesByName))
	for _, role := range s.rolesByName {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateRole(_ context.Context, role entities.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rolesByName[role.Name]; ok {
		return domainerrors.ErrRoleAlreadyExists
	}
	s.rolesByName[role.Name] = role
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.outbox {
		if record.Status != outboxStatusPending {
			continue
		}
		out = append(out, ports.OutboxMessage{
			OutboxID:  record.OutboxID,
			EventType: record.EventType,
			Payload:   append([]byte(nil), record.Payload...),
			CreatedAt: record.CreatedAt,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].OutboxID == outboxID {
			s.outbox[i].Status = outboxStatusSent
			at := sentAt.UTC()
			s.outbox[i].SentAt = &at
			return nil
		}
	}
	return domainerrors.ErrRepositoryBroken
}

func (s *Store) MarkOutboxFailed(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].OutboxID == outboxID {
			s.outbox[i].Status = outboxStatusFailed
			return nil
		}
	}
	return domainerrors.ErrRepositoryBroken
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneUser(user entities.User) entities.User {
	user.Roles = append([]entities.Role(nil), user.Roles...)
	return user
}

func marshalRegisteredEnvelope(event ports.RegisteredEvent) ([]byte, error) {
	data, err := json.Marshal(contractsv1.UserRegistered{
		UserID:    event.UserID,
		Username:  event.Username,
		Email:     event.Email,
		FullName:  event.FullName,
		RoleNames: event.RoleNames,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(contractsv1.Envelope{
		EventID:          event.EventID,
		EventType:        contractsv1.EventTypeUserRegistered,
		OccurredAt:       event.OccurredAt.UTC(),
		SourceService:    "auth-service",
		SchemaVersion:    1,
		PartitionKeyPath: "username",
		PartitionKey:     event.Username,
		Data:             data,
	})
}
