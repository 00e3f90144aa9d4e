package outbound

import (
	"context"

	"github.com/jonny/playerbridge/internal/domain/model"
)

// RoleDirectory resolves members and roles in a workspace and mutates role
// membership. Find methods return (nil, nil) when the subject does not exist.
type RoleDirectory interface {
	FindMember(ctx context.Context, teamID, userID string) (*model.MemberRef, error)
	FindRole(ctx context.Context, teamID, name string) (*model.RoleRef, error)
	AddRole(ctx context.Context, teamID string, member model.MemberRef, role model.RoleRef) (alreadyMember bool, err error)
}

// CommandRegistrar publishes the command descriptor to the platform.
type CommandRegistrar interface {
	Register(ctx context.Context, cmd model.CommandDescriptor) (changed bool, err error)
}
