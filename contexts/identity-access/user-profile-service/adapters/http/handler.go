package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"aegis/contexts/identity-access/user-profile-service/application"
	"aegis/contexts/identity-access/user-profile-service/domain/entities"
	httptransport "aegis/contexts/identity-access/user-profile-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetProfileHandler(ctx context.Context, username string) (httptransport.ProfileResponse, error) {
	profile, err := h.Service.GetProfile(ctx, strings.TrimSpace(username))
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}

func (h Handler) ListProfilesHandler(ctx context.Context) (httptransport.ListProfilesResponse, error) {
	profiles, err := h.Service.ListProfiles(ctx)
	if err != nil {
		return httptransport.ListProfilesResponse{}, err
	}
	resp := httptransport.ListProfilesResponse{
		Profiles: make([]httptransport.ProfileResponse, 0, len(profiles)),
	}
	for _, profile := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(profile))
	}
	return resp, nil
}

func (h Handler) UpdateProfileHandler(
	ctx context.Context,
	username string,
	req httptransport.UpdateProfileRequest,
) (httptransport.ProfileResponse, error) {
	profile, err := h.Service.UpdateContact(ctx, application.UpdateContactCommand{
		Username: strings.TrimSpace(username),
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return toProfileResponse(profile), nil
}

func (h Handler) DeleteProfileHandler(ctx context.Context, username string) (httptransport.DeleteProfileResponse, error) {
	if err := h.Service.Delete(ctx, strings.TrimSpace(username)); err != nil {
		return httptransport.DeleteProfileResponse{}, err
	}
	return httptransport.DeleteProfileResponse{Message: "User deleted successfully"}, nil
}

func toProfileResponse(profile entities.Profile) httptransport.ProfileResponse {
	return httptransport.ProfileResponse{
		Username:  profile.Username,
		Email:     profile.Email,
		FullName:  profile.FullName,
		RoleNames: profile.RoleNames(),
	}
}
