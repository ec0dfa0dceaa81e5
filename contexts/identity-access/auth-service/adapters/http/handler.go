package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"aegis/contexts/identity-access/auth-service/application/commands"
	"aegis/contexts/identity-access/auth-service/application/queries"
	httptransport "aegis/contexts/identity-access/auth-service/transport/http"
)

type Handler struct {
	RegisterUser   commands.RegisterUserUseCase
	Login          commands.LoginUseCase
	CreateRole     commands.CreateRoleUseCase
	ListRoles      queries.ListRolesUseCase
	ResolveAccount queries.ResolveAccountUseCase
	Logger         *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.RegisterResponse, error) {
	_, err := h.RegisterUser.Execute(ctx, commands.RegisterUserCommand{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return httptransport.RegisterResponse{}, err
	}
	return httptransport.RegisterResponse{Message: "User registered successfully"}, nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	result, err := h.Login.Execute(ctx, commands.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) CreateRoleHandler(ctx context.Context, req httptransport.CreateRoleRequest) (httptransport.RoleResponse, error) {
	role, err := h.CreateRole.Execute(ctx, commands.CreateRoleCommand{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return httptransport.RoleResponse{}, err
	}
	return httptransport.RoleResponse{
		Name:        string(role.Name),
		Description: role.Description,
		Active:      role.Active,
	}, nil
}

func (h Handler) ListRolesHandler(ctx context.Context) (httptransport.ListRolesResponse, error) {
	roles, err := h.ListRoles.Execute(ctx)
	if err != nil {
		return httptransport.ListRolesResponse{}, err
	}
	resp := httptransport.ListRolesResponse{Roles: make([]httptransport.RoleResponse, 0, len(roles))}
	for _, role := range roles {
		resp.Roles = append(resp.Roles, httptransport.RoleResponse{
			Name:        string(role.Name),
			Description: role.Description,
			Active:      role.Active,
		})
	}
	return resp, nil
}

// ResolveAuthoritiesHandler backs the authentication middleware: it maps a
// token subject to the account's current authorities.
func (h Handler) ResolveAuthoritiesHandler(ctx context.Context, username string) ([]string, error) {
	return h.ResolveAccount.Execute(ctx, strings.TrimSpace(username))
}
