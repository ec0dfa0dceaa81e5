package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"aegis/contexts/identity-access/user-profile-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/user-profile-service/domain/errors"
)

// Store is the development/testing adapter backing every profile port.
type Store struct {
	mu sync.RWMutex

	profilesByUsername map[string]entities.Profile
	rolesByName        map[string]entities.Role
}

// NewStore seeds the local role catalog the way production migrations do.
func NewStore() *Store {
	s := &Store{
		profilesByUsername: make(map[string]entities.Profile),
		rolesByName:        make(map[string]entities.Role),
	}
	for _, seed := range []struct {
		name        string
		description string
	}{
		{"USER", "Default role for registered users"},
		{"ADMIN", "Administrative access"},
		{"MODERATOR", "Content moderation access"},
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

func (s *Store) FindActiveByUsername(_ context.Context, username string) (entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profilesByUsername[username]
	if !ok || profile.Deleted {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	return cloneProfile(profile), nil
}

func (s *Store) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.profilesByUsername[username]
	return ok, nil
}

func (s *Store) ListActive(_ context.Context) ([]entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Profile, 0, len(s.profilesByUsername))
	for _, profile := range s.profilesByUsername {
		if profile.Deleted {
			continue
		}
		out = append(out, cloneProfile(profile))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) Create(_ context.Context, profile entities.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profilesByUsername[profile.Username]; ok {
		return domainerrors.ErrProfileExists
	}
	s.profilesByUsername[profile.Username] = cloneProfile(profile)
	return nil
}

func (s *Store) UpdateContact(
	_ context.Context,
	username string,
	email string,
	fullName string,
	updatedAt time.Time,
) (entities.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profilesByUsername[username]
	if !ok || profile.Deleted {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	profile.Email = email
	profile.FullName = fullName
	profile.UpdatedAt = updatedAt.UTC()
	s.profilesByUsername[username] = profile
	return cloneProfile(profile), nil
}

func (s *Store) SoftDelete(_ context.Context, username string, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profilesByUsername[username]
	if !ok || profile.Deleted {
		return domainerrors.ErrProfileNotFound
	}
	profile.Deleted = true
	profile.UpdatedAt = deletedAt.UTC()
	s.profilesByUsername[username] = profile
	return nil
}

func (s *Store) FindByName(_ context.Context, name string) (entities.Role, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.rolesByName[name]
	if !ok || !role.Active {
		return entities.Role{}, false, nil
	}
	return role, true, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneProfile(profile entities.Profile) entities.Profile {
	profile.Roles = append([]entities.Role(nil), profile.Roles...)
	return profile
}
