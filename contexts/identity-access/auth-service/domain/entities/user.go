package entities

import "time"

// User is the primary credential record. Username is immutable and globally
// unique; Deleted is a soft flag and soft-deleted users must never
// authenticate.
type User struct {
	UserID         string
	Username       string
	PasswordDigest string
	Email          string
	FullName       string
	Deleted        bool
	Roles          []Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RoleNames returns the user's role names in assignment order.
func (u User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		out = append(out, string(role.Name))
	}
	return out
}

// Authorities returns the granted-authority set for the user's roles.
func (u User) Authorities() []string {
	return Authorities(u.Roles)
}
