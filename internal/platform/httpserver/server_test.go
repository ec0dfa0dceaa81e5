package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	auth "aegis/contexts/identity-access/auth-service"
	userprofile "aegis/contexts/identity-access/user-profile-service"
	contractsv1 "aegis/contracts/gen/events/v1"
	"aegis/internal/platform/tokens"
)

// syncBus couples publisher and subscriber synchronously so tests observe
// replication immediately after the relay runs.
type syncBus struct {
	handlers []func(context.Context, contractsv1.Envelope) error
}

func (b *syncBus) Subscribe(
	_ context.Context,
	_ string,
	_ string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	b.handlers = append(b.handlers, handler)
	return nil
}

func (b *syncBus) Publish(ctx context.Context, _ string, event contractsv1.Envelope) error {
	for _, handler := range b.handlers {
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

type testHarness struct {
	server *Server
	auth   auth.Module
}

func newTestServer(t *testing.T) *testHarness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	issuer, err := tokens.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("new issuer failed: %v", err)
	}

	bus := &syncBus{}
	profileModule := userprofile.NewInMemoryModule(bus, logger)
	if err := profileModule.Consumer.Start(context.Background()); err != nil {
		t.Fatalf("consumer start failed: %v", err)
	}
	authModule := auth.NewInMemoryModule(issuer, bus, logger)

	return &testHarness{
		server: New(authModule, profileModule, issuer, logger, ":0"),
		auth:   authModule,
	}
}

func (h *testHarness) do(t *testing.T, method string, path string, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rr, req)
	return rr
}

// registerAndLogin provisions an account with the given role, drains the
// outbox so the shadow profile exists, and returns a bearer token.
func (h *testHarness) registerAndLogin(t *testing.T, username string, role string) string {
	t.Helper()
	body := fmt.Sprintf(
		`{"username":%q,"password":"secret1","email":"%s@example.com","fullName":"Test %s","role":%q}`,
		username, username, username, role,
	)
	if role == "" {
		body = fmt.Sprintf(
			`{"username":%q,"password":"secret1","email":"%s@example.com","fullName":"Test %s"}`,
			username, username, username,
		)
	}
	rr := h.do(t, http.MethodPost, "/auth/register", "", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("register failed: %d body=%s", rr.Code, rr.Body.String())
	}
	if err := h.auth.OutboxRelay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}

	loginBody := fmt.Sprintf(`{"username":%q,"password":"secret1"}`, username)
	rr = h.do(t, http.MethodPost, "/auth/login", "", loginBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token in login response: %s", rr.Body.String())
	}
	return resp.Token
}
