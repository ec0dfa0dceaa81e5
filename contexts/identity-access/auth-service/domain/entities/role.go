package entities

import "strings"

// RoleName is the closed set of roles the platform understands. Keeping the
// variant closed (instead of free-form strings) means authority construction
// cannot drift per call site.
type RoleName string

const (
	RoleUser      RoleName = "USER"
	RoleAdmin     RoleName = "ADMIN"
	RoleModerator RoleName = "MODERATOR"
)

// AuthorityPrefix is prepended to a role name to form the granted authority
// carried in tokens and security contexts.
const AuthorityPrefix = "ROLE_"

// ParseRoleName normalizes raw input into a RoleName.
func ParseRoleName(raw string) (RoleName, bool) {
	name := RoleName(strings.ToUpper(strings.TrimSpace(raw)))
	switch name {
	case RoleUser, RoleAdmin, RoleModerator:
		return name, true
	default:
		return "", false
	}
}

// Authority maps the role name to its granted-authority form, e.g. "ROLE_ADMIN".
func (n RoleName) Authority() string {
	return AuthorityPrefix + strings.ToUpper(string(n))
}

// Role is a named grant, unique by name, many-to-many with users.
type Role struct {
	RoleID      string
	Name        RoleName
	Description string
	Active      bool
}

// Authorities maps a role set to its authority strings, deduplicated and
// order-preserving.
func Authorities(roles []Role) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		authority := role.Name.Authority()
		if _, ok := seen[authority]; ok {
			continue
		}
		seen[authority] = struct{}{}
		out = append(out, authority)
	}
	return out
}
