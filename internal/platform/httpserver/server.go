package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	auth "aegis/contexts/identity-access/auth-service"
	authhttp "aegis/contexts/identity-access/auth-service/transport/http"
	userprofile "aegis/contexts/identity-access/user-profile-service"
)

type Server struct {
	mux      *http.ServeMux
	handler  http.Handler
	logger   *slog.Logger
	addr     string
	auth     auth.Module
	profiles userprofile.Module
}

func New(
	authModule auth.Module,
	profileModule userprofile.Module,
	tokens TokenValidator,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		auth:     authModule,
		profiles: profileModule,
	}
	s.registerRoutes()

	directory := AccountDirectoryFunc(authModule.Handler.ResolveAuthoritiesHandler)
	authorize := Authorize(DefaultRules(), logger)
	authenticate := Authenticate(tokens, directory, logger)
	s.handler = authenticate(authorize(s.mux))
	return s
}

// Handler exposes the full middleware chain for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.handler)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("GET /auth/hello", s.handleAuthHello)
	s.mux.HandleFunc("POST /auth/register", s.handleAuthRegister)
	s.mux.HandleFunc("POST /auth/login", s.handleAuthLogin)

	s.mux.HandleFunc("GET /role/user", s.handleRoleUserProbe)
	s.mux.HandleFunc("GET /role/admin", s.handleRoleAdminProbe)
	s.mux.HandleFunc("GET /role/mod", s.handleRoleModeratorProbe)

	s.mux.HandleFunc("GET /roles", s.handleListRoles)
	s.mux.HandleFunc("POST /roles", s.handleCreateRole)

	s.mux.HandleFunc("GET /users", s.handleListProfiles)
	s.mux.HandleFunc("GET /users/me", s.handleGetOwnProfile)
	s.mux.HandleFunc("PUT /users/me", s.handleUpdateOwnProfile)
	s.mux.HandleFunc("DELETE /users/{username}", s.handleDeleteProfile)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeSecurityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authhttp.ErrorResponse{
		Code:    code,
		Domain:  "security",
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
