package httpserver

import "testing"

func TestDecidePublicRoutesIgnoreContext(t *testing.T) {
	rules := DefaultRules()
	for _, path := range []string{"/healthz", "/auth/hello", "/auth/register", "/auth/login"} {
		if got := Decide(rules, path, SecurityContext{}); got != Allow {
			t.Fatalf("expected Allow for anonymous %s, got %v", path, got)
		}
	}
}

func TestDecideAnonymousIsUnauthorized(t *testing.T) {
	rules := DefaultRules()
	for _, path := range []string{"/role/user", "/users", "/users/me", "/roles", "/unmapped"} {
		if got := Decide(rules, path, SecurityContext{}); got != Unauthorized {
			t.Fatalf("expected Unauthorized for anonymous %s, got %v", path, got)
		}
	}
}

func TestDecideRoleMismatchIsForbidden(t *testing.T) {
	rules := DefaultRules()
	sc := SecurityContext{Subject: "alice", Authorities: []string{"ROLE_USER"}}

	if got := Decide(rules, "/role/user", sc); got != Allow {
		t.Fatalf("expected Allow for matching role, got %v", got)
	}
	for _, path := range []string{"/role/admin", "/role/mod", "/users", "/roles"} {
		if got := Decide(rules, path, sc); got != Forbidden {
			t.Fatalf("expected Forbidden for %s, got %v", path, got)
		}
	}
}

func TestDecideLongestPrefixWins(t *testing.T) {
	rules := DefaultRules()
	sc := SecurityContext{Subject: "alice", Authorities: []string{"ROLE_USER"}}

	// "/users/me" needs only authentication even though "/users" is
	// admin-gated.
	if got := Decide(rules, "/users/me", sc); got != Allow {
		t.Fatalf("expected Allow on own-profile route, got %v", got)
	}
	if got := Decide(rules, "/users", sc); got != Forbidden {
		t.Fatalf("expected Forbidden on admin list route, got %v", got)
	}
}

func TestDecideUnmappedPathRequiresAuthentication(t *testing.T) {
	rules := DefaultRules()
	sc := SecurityContext{Subject: "alice", Authorities: []string{"ROLE_USER"}}
	if got := Decide(rules, "/unmapped", sc); got != Allow {
		t.Fatalf("expected authenticated access to unmapped path, got %v", got)
	}
}

func TestDecideAdminAuthorities(t *testing.T) {
	rules := DefaultRules()
	admin := SecurityContext{Subject: "root", Authorities: []string{"ROLE_ADMIN"}}

	for _, path := range []string{"/role/admin", "/users", "/roles"} {
		if got := Decide(rules, path, admin); got != Allow {
			t.Fatalf("expected Allow for admin on %s, got %v", path, got)
		}
	}
	if got := Decide(rules, "/role/user", admin); got != Forbidden {
		t.Fatalf("admin without ROLE_USER must not pass the user probe, got %v", got)
	}
}
