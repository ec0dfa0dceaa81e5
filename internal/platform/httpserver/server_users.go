package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	authhttp "aegis/contexts/identity-access/auth-service/transport/http"
	profiledomainerrors "aegis/contexts/identity-access/user-profile-service/domain/errors"
	profilehttp "aegis/contexts/identity-access/user-profile-service/transport/http"
)

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.profiles.Handler.ListProfilesHandler(r.Context())
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	sc := SecurityContextFrom(r.Context())
	resp, err := s.profiles.Handler.GetProfileHandler(r.Context(), sc.Subject)
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	var req profilehttp.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProfileError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	sc := SecurityContextFrom(r.Context())
	resp, err := s.profiles.Handler.UpdateProfileHandler(r.Context(), sc.Subject, req)
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	resp, err := s.profiles.Handler.DeleteProfileHandler(r.Context(), username)
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeProfileDomainError(w http.ResponseWriter, err error) {
	var validation *profiledomainerrors.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, authhttp.ErrorResponse{
			Code:    "validation_failed",
			Domain:  "user",
			Message: "request validation failed",
			Details: validation.Fields,
		})
	case errors.Is(err, profiledomainerrors.ErrProfileNotFound):
		writeProfileError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, profiledomainerrors.ErrProfileExists):
		writeProfileError(w, http.StatusConflict, "profile_exists", err.Error())
	case errors.Is(err, profiledomainerrors.ErrInvalidRequest):
		writeProfileError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeProfileError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeProfileError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authhttp.ErrorResponse{
		Code:    code,
		Domain:  "user",
		Message: message,
	})
}
