package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "aegis/contexts/identity-access/auth-service/application"
	domainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	"aegis/contexts/identity-access/auth-service/ports"
)

// LoginCommand contains transport-agnostic sign-in input.
type LoginCommand struct {
	Username string
	Password string
}

// LoginResult carries the issued bearer token and its expiry.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// LoginUseCase verifies credentials and issues a signed bearer token.
type LoginUseCase struct {
	Users  ports.UserRepository
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	Logger *slog.Logger
}

// Execute authenticates the user and issues a token carrying the user's
// granted authorities. Unknown usernames, soft-deleted accounts and digest
// mismatches all collapse into ErrInvalidCredentials so callers cannot probe
// which accounts exist.
func (u LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	logger := application.ResolveLogger(u.Logger)

	username := strings.TrimSpace(cmd.Username)
	if username == "" || cmd.Password == "" {
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	user, err := u.Users.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			logger.Debug("login rejected",
				"event", "auth_login_rejected",
				"module", "identity-access/auth-service",
				"layer", "application",
				"username", username,
				"reason", "unknown or inactive user",
			)
			return LoginResult{}, domainerrors.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !u.Hasher.Verify(cmd.Password, user.PasswordDigest) {
		logger.Debug("login rejected",
			"event", "auth_login_rejected",
			"module", "identity-access/auth-service",
			"layer", "application",
			"username", username,
			"reason", "digest mismatch",
		)
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	now := u.now()
	token, err := u.Tokens.Issue(user.Username, user.Authorities(), now)
	if err != nil {
		return LoginResult{}, err
	}

	logger.Info("user signed in",
		"event", "auth_login_succeeded",
		"module", "identity-access/auth-service",
		"layer", "application",
		"username", username,
	)

	return LoginResult{
		Token:     token,
		ExpiresAt: u.Tokens.ExpiresAt(now),
	}, nil
}

func (u LoginUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
