package queries

import (
	"context"

	"aegis/contexts/identity-access/auth-service/domain/entities"
	"aegis/contexts/identity-access/auth-service/ports"
)

// ListRolesUseCase reads the role catalog.
type ListRolesUseCase struct {
	Roles ports.RoleRepository
}

func (u ListRolesUseCase) Execute(ctx context.Context) ([]entities.Role, error) {
	return u.Roles.ListRoles(ctx)
}
