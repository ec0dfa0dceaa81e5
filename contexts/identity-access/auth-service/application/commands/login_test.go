package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"aegis/contexts/identity-access/auth-service/adapters/memory"
	"aegis/contexts/identity-access/auth-service/adapters/password"
	domainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	"aegis/internal/platform/tokens"
)

func newLoginFixture(t *testing.T) (*memory.Store, LoginUseCase) {
	t.Helper()
	store := memory.NewStore()
	issuer, err := tokens.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("new issuer failed: %v", err)
	}
	return store, LoginUseCase{
		Users:  store,
		Hasher: &password.BcryptHasher{Cost: 4},
		Tokens: issuer,
		Clock:  store,
	}
}

func TestRegisterThenLogin(t *testing.T) {
	store, login := newLoginFixture(t)
	register := newRegisterUseCase(store)

	if _, err := register.Execute(context.Background(), RegisterUserCommand{
		Username: "erin",
		Password: "secret1",
		Email:    "erin@example.com",
		FullName: "Erin Hunter",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := login.Execute(context.Background(), LoginCommand{
		Username: "erin",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if !result.ExpiresAt.After(time.Now().UTC()) {
		t.Fatalf("expected a future expiry, got %v", result.ExpiresAt)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store, login := newLoginFixture(t)
	register := newRegisterUseCase(store)

	if _, err := register.Execute(context.Background(), RegisterUserCommand{
		Username: "frank",
		Password: "secret1",
		Email:    "frank@example.com",
		FullName: "Frank Ocean",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := login.Execute(context.Background(), LoginCommand{
		Username: "frank",
		Password: "wrong",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUsername(t *testing.T) {
	_, login := newLoginFixture(t)

	_, err := login.Execute(context.Background(), LoginCommand{
		Username: "ghost",
		Password: "secret1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginEmptyCredentials(t *testing.T) {
	_, login := newLoginFixture(t)

	_, err := login.Execute(context.Background(), LoginCommand{})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
