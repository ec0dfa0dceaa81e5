package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenValidator verifies compact signed bearer tokens and reads the subject
// claim. Validation is a pure function of (token, secret, now).
type TokenValidator interface {
	Validate(tokenString string, now time.Time) bool
	Subject(tokenString string, now time.Time) (string, error)
}

// AccountDirectory maps a token subject to the account's current authorities.
// It only ever sees active accounts; soft-deleted subjects resolve to an
// error and the request stays anonymous.
type AccountDirectory interface {
	ResolveAuthorities(ctx context.Context, username string) ([]string, error)
}

// AccountDirectoryFunc adapts a resolve function to AccountDirectory.
type AccountDirectoryFunc func(ctx context.Context, username string) ([]string, error)

func (f AccountDirectoryFunc) ResolveAuthorities(ctx context.Context, username string) ([]string, error) {
	return f(ctx, username)
}

// Authenticate builds the bearer-token middleware. Every failure mode leaves
// the request anonymous; rejection is the authorization layer's job.
func Authenticate(tokens TokenValidator, accounts AccountDirectory, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now().UTC()
			if !tokens.Validate(token, now) {
				logger.Debug("bearer token rejected",
					"event", "http_authn_token_rejected",
					"module", "internal/platform/httpserver",
					"layer", "platform",
					"path", r.URL.Path,
				)
				next.ServeHTTP(w, r)
				return
			}

			subject, err := tokens.Subject(token, now)
			if err != nil || strings.TrimSpace(subject) == "" {
				next.ServeHTTP(w, r)
				return
			}

			authorities, err := accounts.ResolveAuthorities(r.Context(), subject)
			if err != nil {
				logger.Debug("subject resolution failed",
					"event", "http_authn_subject_unresolved",
					"module", "internal/platform/httpserver",
					"layer", "platform",
					"subject", subject,
					"error", err.Error(),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSecurityContext(r.Context(), SecurityContext{
				Subject:     subject,
				Authorities: authorities,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
