package httpserver

import "context"

// SecurityContext carries the authenticated subject and its authorities for
// one request. The zero value is the anonymous context.
type SecurityContext struct {
	Subject     string
	Authorities []string
}

func (c SecurityContext) IsAnonymous() bool {
	return c.Subject == ""
}

func (c SecurityContext) HasAuthority(authority string) bool {
	for _, granted := range c.Authorities {
		if granted == authority {
			return true
		}
	}
	return false
}

func (c SecurityContext) HasAnyAuthority(authorities ...string) bool {
	for _, authority := range authorities {
		if c.HasAuthority(authority) {
			return true
		}
	}
	return false
}

type securityContextKey struct{}

// WithSecurityContext attaches the security context to a request context.
func WithSecurityContext(ctx context.Context, sc SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sc)
}

// SecurityContextFrom returns the request's security context, anonymous when
// authentication never ran or failed.
func SecurityContextFrom(ctx context.Context) SecurityContext {
	sc, _ := ctx.Value(securityContextKey{}).(SecurityContext)
	return sc
}
