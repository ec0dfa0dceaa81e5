package httpserver

import (
	"net/http"
	"testing"
)

func TestHealthzIsPublic(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodGet, "/healthz", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAuthHelloIsPublic(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodGet, "/auth/hello", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterValidationStatus(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodPost, "/auth/register", "", `{"username":"al","password":"pw","email":"bad","fullName":""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterDuplicateStatus(t *testing.T) {
	h := newTestServer(t)
	body := `{"username":"dup","password":"secret1","email":"dup@example.com","fullName":"Dup User"}`
	if rr := h.do(t, http.MethodPost, "/auth/register", "", body); rr.Code != http.StatusOK {
		t.Fatalf("first register failed: %d body=%s", rr.Code, rr.Body.String())
	}
	rr := h.do(t, http.MethodPost, "/auth/register", "", body)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginBadCredentialsStatus(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodPost, "/auth/login", "", `{"username":"nobody","password":"secret1"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRoleProbeRequiresToken(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodGet, "/role/user", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGarbageTokenStaysAnonymous(t *testing.T) {
	h := newTestServer(t)
	rr := h.do(t, http.MethodGet, "/role/user", "not-a-real-token", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRoleProbeMatrix(t *testing.T) {
	h := newTestServer(t)
	userToken := h.registerAndLogin(t, "probe-user", "")
	adminToken := h.registerAndLogin(t, "probe-admin", "ADMIN")

	if rr := h.do(t, http.MethodGet, "/role/user", userToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("user probe with USER role: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := h.do(t, http.MethodGet, "/role/admin", userToken, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("admin probe with USER role: expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := h.do(t, http.MethodGet, "/role/admin", adminToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("admin probe with ADMIN role: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := h.do(t, http.MethodGet, "/role/mod", userToken, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("mod probe with USER role: expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRolesEndpointIsAdminGated(t *testing.T) {
	h := newTestServer(t)
	userToken := h.registerAndLogin(t, "roles-user", "")
	adminToken := h.registerAndLogin(t, "roles-admin", "ADMIN")

	if rr := h.do(t, http.MethodGet, "/roles", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list roles: expected 401, got %d", rr.Code)
	}
	if rr := h.do(t, http.MethodGet, "/roles", userToken, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("user list roles: expected 403, got %d", rr.Code)
	}
	if rr := h.do(t, http.MethodGet, "/roles", adminToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("admin list roles: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr := h.do(t, http.MethodPost, "/roles", adminToken, `{"name":"ADMIN","description":"dup"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate role create: expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = h.do(t, http.MethodPost, "/roles", adminToken, `{"name":"WIZARD"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("role outside the closed set: expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
