package commands

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	application "aegis/contexts/identity-access/auth-service/application"
	"aegis/contexts/identity-access/auth-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	"aegis/contexts/identity-access/auth-service/ports"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// RegisterUserCommand contains transport-agnostic sign-up input.
type RegisterUserCommand struct {
	Username string
	Password string
	Email    string
	FullName string
	// Role optionally requests a role other than the default USER.
	Role string
}

// RegisterUserResult reports the created identity.
type RegisterUserResult struct {
	UserID    string
	Username  string
	RoleNames []string
}

// RegisterUserUseCase creates a credential record and queues the provisioning
// event in the same transaction.
type RegisterUserUseCase struct {
	Users       ports.UserRepository
	Roles       ports.RoleRepository
	Hasher      ports.PasswordHasher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates the command, persists the user and the user.registered
// outbox row atomically, and reports the created identity. The caller never
// waits on the broker; the worker relay publishes committed outbox rows.
func (u RegisterUserUseCase) Execute(ctx context.Context, cmd RegisterUserCommand) (RegisterUserResult, error) {
	logger := application.ResolveLogger(u.Logger)

	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.FullName = strings.TrimSpace(cmd.FullName)

	if fields := validateRegistration(cmd); len(fields) > 0 {
		return RegisterUserResult{}, domainerrors.NewValidationError(fields)
	}

	roleName := entities.RoleUser
	if strings.TrimSpace(cmd.Role) != "" {
		parsed, ok := entities.ParseRoleName(cmd.Role)
		if !ok {
			return RegisterUserResult{}, domainerrors.ErrRoleNotFound
		}
		roleName = parsed
	}

	role, err := u.Roles.FindByName(ctx, roleName)
	if err != nil {
		return RegisterUserResult{}, err
	}

	exists, err := u.Users.ExistsByUsername(ctx, cmd.Username)
	if err != nil {
		return RegisterUserResult{}, err
	}
	if exists {
		return RegisterUserResult{}, domainerrors.ErrUsernameTaken
	}

	digest, err := u.Hasher.Hash(cmd.Password)
	if err != nil {
		return RegisterUserResult{}, err
	}

	now := u.now()
	userID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterUserResult{}, err
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterUserResult{}, err
	}

	user := entities.User{
		UserID:         userID,
		Username:       cmd.Username,
		PasswordDigest: digest,
		Email:          cmd.Email,
		FullName:       cmd.FullName,
		Deleted:        false,
		Roles:          []entities.Role{role},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	event := ports.RegisteredEvent{
		EventID:    eventID,
		UserID:     userID,
		Username:   cmd.Username,
		Email:      cmd.Email,
		FullName:   cmd.FullName,
		RoleNames:  user.RoleNames(),
		OccurredAt: now,
	}

	// Duplicate usernames racing past ExistsByUsername surface here through
	// the unique constraint.
	if err := u.Users.CreateWithOutbox(ctx, user, event); err != nil {
		return RegisterUserResult{}, err
	}

	logger.Info("user registered",
		"event", "auth_user_registered",
		"module", "identity-access/auth-service",
		"layer", "application",
		"user_id", userID,
		"username", cmd.Username,
		"role", string(roleName),
	)

	return RegisterUserResult{
		UserID:    userID,
		Username:  cmd.Username,
		RoleNames: user.RoleNames(),
	}, nil
}

func (u RegisterUserUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}

func validateRegistration(cmd RegisterUserCommand) map[string]string {
	fields := make(map[string]string)
	if cmd.Username == "" {
		fields["username"] = "username is required"
	} else if len(cmd.Username) < minUsernameLength {
		fields["username"] = "username must be at least 3 characters"
	}
	if cmd.Password == "" {
		fields["password"] = "password is required"
	} else if len(cmd.Password) < minPasswordLength {
		fields["password"] = "password must be at least 6 characters"
	}
	if cmd.Email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(cmd.Email); err != nil {
		fields["email"] = "email must be a valid address"
	}
	if cmd.FullName == "" {
		fields["fullName"] = "full name is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
