package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	authdomainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	authhttp "aegis/contexts/identity-access/auth-service/transport/http"
)

func (s *Server) handleAuthHello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, authhttp.HelloResponse{Message: "Hello from the identity service"})
}

func (s *Server) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var req authhttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.auth.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeAuthDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req authhttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.auth.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAuthDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoleUserProbe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "User content"})
}

func (s *Server) handleRoleAdminProbe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Admin content"})
}

func (s *Server) handleRoleModeratorProbe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Moderator content"})
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auth.Handler.ListRolesHandler(r.Context())
	if err != nil {
		writeAuthDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req authhttp.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.auth.Handler.CreateRoleHandler(r.Context(), req)
	if err != nil {
		writeAuthDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func writeAuthDomainError(w http.ResponseWriter, err error) {
	var validation *authdomainerrors.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, authhttp.ErrorResponse{
			Code:    "validation_failed",
			Domain:  "auth",
			Message: "request validation failed",
			Details: validation.Fields,
		})
	case errors.Is(err, authdomainerrors.ErrInvalidCredentials):
		writeAuthError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, authdomainerrors.ErrUsernameTaken):
		writeAuthError(w, http.StatusConflict, "username_taken", err.Error())
	case errors.Is(err, authdomainerrors.ErrRoleAlreadyExists):
		writeAuthError(w, http.StatusConflict, "role_exists", err.Error())
	case errors.Is(err, authdomainerrors.ErrUserNotFound):
		writeAuthError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, authdomainerrors.ErrRoleNotFound):
		writeAuthError(w, http.StatusNotFound, "role_not_found", err.Error())
	case errors.Is(err, authdomainerrors.ErrInvalidRequest):
		writeAuthError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeAuthError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuthError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authhttp.ErrorResponse{
		Code:    code,
		Domain:  "auth",
		Message: message,
	})
}
