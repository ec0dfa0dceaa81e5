package queries

import (
	"context"
	"strings"

	domainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	"aegis/contexts/identity-access/auth-service/ports"
)

// ResolveAccountUseCase maps a token subject to the authority set of the
// matching active account. Used by the request authentication gate; the
// active-only lookup is the single soft-delete predicate, so deleted accounts
// can never reconstruct a security context.
type ResolveAccountUseCase struct {
	Users ports.UserRepository
}

func (u ResolveAccountUseCase) Execute(ctx context.Context, username string) ([]string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domainerrors.ErrUserNotFound
	}
	user, err := u.Users.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Authorities(), nil
}
