package commands

import (
	"context"
	"log/slog"
	"strings"

	application "aegis/contexts/identity-access/auth-service/application"
	"aegis/contexts/identity-access/auth-service/domain/entities"
	domainerrors "aegis/contexts/identity-access/auth-service/domain/errors"
	"aegis/contexts/identity-access/auth-service/ports"
)

// CreateRoleCommand contains input for adding a role to the catalog.
type CreateRoleCommand struct {
	Name        string
	Description string
}

// CreateRoleUseCase adds a role to the closed catalog.
type CreateRoleUseCase struct {
	Roles       ports.RoleRepository
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates the role name against the closed set and persists it.
func (u CreateRoleUseCase) Execute(ctx context.Context, cmd CreateRoleCommand) (entities.Role, error) {
	logger := application.ResolveLogger(u.Logger)

	name, ok := entities.ParseRoleName(cmd.Name)
	if !ok {
		return entities.Role{}, domainerrors.NewValidationError(map[string]string{
			"name": "role name must be one of USER, ADMIN, MODERATOR",
		})
	}

	roleID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Role{}, err
	}

	role := entities.Role{
		RoleID:      roleID,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		Active:      true,
	}
	if err := u.Roles.CreateRole(ctx, role); err != nil {
		return entities.Role{}, err
	}

	logger.Info("role created",
		"event", "auth_role_created",
		"module", "identity-access/auth-service",
		"layer", "application",
		"role", string(name),
	)
	return role, nil
}
