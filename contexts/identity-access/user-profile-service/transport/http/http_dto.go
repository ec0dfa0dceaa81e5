package http

// ProfileResponse is the read model exposed for a single profile. The
// replicated placeholder digest never leaves the service.
type ProfileResponse struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FullName  string   `json:"fullName"`
	RoleNames []string `json:"roleNames"`
}

type ListProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

type UpdateProfileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type DeleteProfileResponse struct {
	Message string `json:"message"`
}
