package service

import (
	"context"
	"fmt"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// RoleGrantExecutor resolves a member and a role and adds one to the other.
// Every call makes at most one mutation and is never retried.
type RoleGrantExecutor struct {
	roles outbound.RoleDirectory
}

// NewRoleGrantExecutor creates a RoleGrantExecutor backed by the given directory.
func NewRoleGrantExecutor(roles outbound.RoleDirectory) *RoleGrantExecutor {
	return &RoleGrantExecutor{roles: roles}
}

// Grant adds the member identified by externalUserID to the role named roleName.
func (e *RoleGrantExecutor) Grant(ctx context.Context, externalUserID, roleName, teamID string) model.RoleGrantResult {
	member, err := e.roles.FindMember(ctx, teamID, externalUserID)
	if err != nil {
		return model.GrantFailed{Cause: fmt.Errorf("looking up member %s: %w", externalUserID, err)}
	}
	if member == nil {
		return model.MemberNotFound{ExternalUserID: externalUserID}
	}

	role, err := e.roles.FindRole(ctx, teamID, roleName)
	if err != nil {
		return model.GrantFailed{Cause: fmt.Errorf("looking up role %s: %w", roleName, err)}
	}
	if role == nil {
		return model.RoleNotFound{RoleName: roleName}
	}

	already, err := e.roles.AddRole(ctx, teamID, *member, *role)
	if err != nil {
		return model.GrantFailed{Cause: fmt.Errorf("adding %s to %s: %w", member.ID, role.Name, err)}
	}
	return model.Granted{Member: *member, Role: *role, AlreadyMember: already}
}
