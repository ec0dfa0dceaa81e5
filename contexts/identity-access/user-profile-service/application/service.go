package application

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"aegis/contexts/identity-access/user-profile-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/user-profile-service/domain/errors"
	"aegis/contexts/identity-access/user-profile-service/ports"
)

// ReplicateCommand is the decoded provisioning payload handed to Replicate.
type ReplicateCommand struct {
	UserID    string
	Username  string
	Email     string
	FullName  string
	RoleNames []string
}

// UpdateContactCommand restricts profile edits to contact fields. The
// username is taken from the authenticated subject and is immutable.
type UpdateContactCommand struct {
	Username string
	Email    string
	FullName string
}

// Service implements the shadow profile read model and its replication.
type Service struct {
	Profiles    ports.ProfileRepository
	Roles       ports.RoleStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Replicate creates the shadow profile for a registration event. Replays and
// duplicate deliveries converge on the first write: an existing username is a
// logged no-op. Each known role name is attached once no matter how often the
// payload repeats it. Unknown role names are skipped with a warning; the
// profile is persisted with whatever subset resolved, even if empty.
// Persistence errors propagate so the bus can redeliver.
func (s Service) Replicate(ctx context.Context, cmd ReplicateCommand) error {
	logger := ResolveLogger(s.Logger)

	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return domainerrors.ErrInvalidRequest
	}

	exists, err := s.Profiles.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		logger.Info("profile already replicated",
			"event", "profile_replication_skipped",
			"module", "identity-access/user-profile-service",
			"layer", "application",
			"username", username,
		)
		return nil
	}

	roles := make([]entities.Role, 0, len(cmd.RoleNames))
	attached := make(map[string]bool, len(cmd.RoleNames))
	for _, name := range cmd.RoleNames {
		trimmed := strings.TrimSpace(name)
		if attached[trimmed] {
			continue
		}
		role, ok, err := s.Roles.FindByName(ctx, trimmed)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("unknown role skipped",
				"event", "profile_replication_role_skipped",
				"module", "identity-access/user-profile-service",
				"layer", "application",
				"username", username,
				"role", name,
			)
			continue
		}
		attached[trimmed] = true
		roles = append(roles, role)
	}

	profileID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	profile := entities.Profile{
		ProfileID:      profileID,
		Username:       username,
		PasswordDigest: entities.PlaceholderDigest,
		Email:          strings.TrimSpace(cmd.Email),
		FullName:       strings.TrimSpace(cmd.FullName),
		Roles:          roles,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Profiles.Create(ctx, profile); err != nil {
		return err
	}

	logger.Info("profile replicated",
		"event", "profile_replicated",
		"module", "identity-access/user-profile-service",
		"layer", "application",
		"username", username,
		"role_count", len(roles),
	)
	return nil
}

// GetProfile returns the active profile for a username.
func (s Service) GetProfile(ctx context.Context, username string) (entities.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	return s.Profiles.FindActiveByUsername(ctx, username)
}

// ListProfiles returns every active profile.
func (s Service) ListProfiles(ctx context.Context) ([]entities.Profile, error) {
	return s.Profiles.ListActive(ctx)
}

// UpdateContact edits the mutable contact fields of the caller's own profile.
func (s Service) UpdateContact(ctx context.Context, cmd UpdateContactCommand) (entities.Profile, error) {
	logger := ResolveLogger(s.Logger)

	username := strings.TrimSpace(cmd.Username)
	email := strings.TrimSpace(cmd.Email)
	fullName := strings.TrimSpace(cmd.FullName)

	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email must be a valid address"
	}
	if fullName == "" {
		fields["fullName"] = "full name is required"
	}
	if len(fields) > 0 {
		return entities.Profile{}, domainerrors.NewValidationError(fields)
	}

	profile, err := s.Profiles.UpdateContact(ctx, username, email, fullName, s.now())
	if err != nil {
		return entities.Profile{}, err
	}

	logger.Info("profile updated",
		"event", "profile_updated",
		"module", "identity-access/user-profile-service",
		"layer", "application",
		"username", username,
	)
	return profile, nil
}

// Delete soft-deletes a profile. Deleted profiles drop out of every
// active-only read path but the row is retained.
func (s Service) Delete(ctx context.Context, username string) error {
	logger := ResolveLogger(s.Logger)

	username = strings.TrimSpace(username)
	if username == "" {
		return domainerrors.ErrProfileNotFound
	}
	if err := s.Profiles.SoftDelete(ctx, username, s.now()); err != nil {
		return err
	}

	logger.Info("profile soft deleted",
		"event", "profile_deleted",
		"module", "identity-access/user-profile-service",
		"layer", "application",
		"username", username,
	)
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
