package http

// ErrorResponse is the error envelope shared by every identity endpoint.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Domain  string            `json:"domain"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type CreateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type RoleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type ListRolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}

type HelloResponse struct {
	Message string `json:"message"`
}
