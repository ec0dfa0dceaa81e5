package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	authentities "aegis/contexts/identity-access/auth-service/domain/entities"
)

// AccessLevel classifies how a route prefix may be reached.
type AccessLevel int

const (
	// Public routes never consult the security context.
	Public AccessLevel = iota
	// RequiresAuthentication admits any non-anonymous context.
	RequiresAuthentication
	// RequiresAnyRole admits contexts holding at least one listed authority.
	RequiresAnyRole
)

// Rule binds a path prefix to an access requirement. The rule set is data:
// changing route protection means changing this table, not handler code.
type Rule struct {
	Prefix      string
	Access      AccessLevel
	Authorities []string
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	Unauthorized
	Forbidden
)

// Decide evaluates the rule table for a path. The longest matching prefix
// wins, so "/users/me" shadows "/users". Paths no rule covers require
// authentication. Pure in (rules, path, sc).
func Decide(rules []Rule, path string, sc SecurityContext) Decision {
	matched := Rule{Access: RequiresAuthentication}
	matchedLen := -1
	for _, rule := range rules {
		if strings.HasPrefix(path, rule.Prefix) && len(rule.Prefix) > matchedLen {
			matched = rule
			matchedLen = len(rule.Prefix)
		}
	}

	switch matched.Access {
	case Public:
		return Allow
	case RequiresAuthentication:
		if sc.IsAnonymous() {
			return Unauthorized
		}
		return Allow
	case RequiresAnyRole:
		if sc.IsAnonymous() {
			return Unauthorized
		}
		if sc.HasAnyAuthority(matched.Authorities...) {
			return Allow
		}
		return Forbidden
	default:
		return Forbidden
	}
}

// DefaultRules is the production route protection table.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/healthz", Access: Public},
		{Prefix: "/auth/", Access: Public},
		{Prefix: "/role/user", Access: RequiresAnyRole, Authorities: []string{authentities.RoleUser.Authority()}},
		{Prefix: "/role/admin", Access: RequiresAnyRole, Authorities: []string{authentities.RoleAdmin.Authority()}},
		{Prefix: "/role/mod", Access: RequiresAnyRole, Authorities: []string{authentities.RoleModerator.Authority()}},
		{Prefix: "/users/me", Access: RequiresAuthentication},
		{Prefix: "/users", Access: RequiresAnyRole, Authorities: []string{authentities.RoleAdmin.Authority()}},
		{Prefix: "/roles", Access: RequiresAnyRole, Authorities: []string{authentities.RoleAdmin.Authority()}},
	}
}

// Authorize builds the decision-point middleware. It is the sole writer of
// 401/403 for request handling.
func Authorize(rules []Rule, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := SecurityContextFrom(r.Context())
			switch Decide(rules, r.URL.Path, sc) {
			case Allow:
				next.ServeHTTP(w, r)
			case Unauthorized:
				writeSecurityError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			case Forbidden:
				logger.Debug("request forbidden",
					"event", "http_authz_forbidden",
					"module", "internal/platform/httpserver",
					"layer", "platform",
					"path", r.URL.Path,
					"subject", sc.Subject,
				)
				writeSecurityError(w, http.StatusForbidden, "forbidden", "insufficient authorities")
			}
		})
	}
}
