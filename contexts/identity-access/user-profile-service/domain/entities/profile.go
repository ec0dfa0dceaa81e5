package entities

import "time"

// PlaceholderDigest marks replicated profiles that carry no real credential.
// It is not a valid bcrypt digest, so it can never verify against any input.
const PlaceholderDigest = "N/A"

// Role is the service-local role catalog row. Names arrive as free strings on
// the wire and are matched literally against the seeded catalog.
type Role struct {
	RoleID      string
	Name        string
	Description string
	Active      bool
}

// Profile is the shadow read model replicated from registration events. It is
// keyed by username and carries no authenticating material.
type Profile struct {
	ProfileID      string
	Username       string
	PasswordDigest string
	Email          string
	FullName       string
	Deleted        bool
	Roles          []Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RoleNames projects the attached role names preserving order.
func (p Profile) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, role := range p.Roles {
		names = append(names, role.Name)
	}
	return names
}
