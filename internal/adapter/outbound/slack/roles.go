package slack

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// Slack error codes that mean the user does not exist in the workspace.
var missingUserErrors = []string{"user_not_found", "users_not_found", "invalid_user"}

// Directory implements outbound.RoleDirectory with Slack user groups as roles.
type Directory struct {
	client *slackapi.Client
}

var _ outbound.RoleDirectory = (*Directory)(nil)

// NewDirectory creates a new Slack Directory.
func NewDirectory(client *slackapi.Client) *Directory {
	return &Directory{client: client}
}

// FindMember looks the user up with users.info. Deleted accounts count as
// absent.
func (d *Directory) FindMember(ctx context.Context, _ string, userID string) (*model.MemberRef, error) {
	user, err := d.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		var slackErr slackapi.SlackErrorResponse
		if errors.As(err, &slackErr) && slices.Contains(missingUserErrors, slackErr.Err) {
			return nil, nil
		}
		return nil, fmt.Errorf("slack users.info: %w", err)
	}
	if user == nil || user.Deleted {
		return nil, nil
	}
	return &model.MemberRef{ID: user.ID, Name: user.Name}, nil
}

// FindRole returns the user group whose name, or failing that whose handle,
// equals name exactly.
func (d *Directory) FindRole(ctx context.Context, teamID, name string) (*model.RoleRef, error) {
	opts := []slackapi.GetUserGroupsOption{slackapi.GetUserGroupsOptionIncludeDisabled(true)}
	if teamID != "" {
		opts = append(opts, slackapi.GetUserGroupsOptionTeamID(teamID))
	}
	groups, err := d.client.GetUserGroupsContext(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("slack usergroups.list: %w", err)
	}

	for _, g := range groups {
		if g.Name == name {
			return &model.RoleRef{ID: g.ID, Name: g.Name, Handle: g.Handle}, nil
		}
	}
	for _, g := range groups {
		if g.Handle == name {
			return &model.RoleRef{ID: g.ID, Name: g.Name, Handle: g.Handle}, nil
		}
	}
	return nil, nil
}

// AddRole adds member to the user group. usergroups.users.update replaces
// the whole member list, so the current list is read first.
func (d *Directory) AddRole(ctx context.Context, teamID string, member model.MemberRef, role model.RoleRef) (bool, error) {
	listOpts := []slackapi.GetUserGroupMembersOption{slackapi.GetUserGroupMembersOptionIncludeDisabled(true)}
	if teamID != "" {
		listOpts = append(listOpts, slackapi.GetUserGroupMembersOptionTeamID(teamID))
	}
	members, err := d.client.GetUserGroupMembersContext(ctx, role.ID, listOpts...)
	if err != nil {
		return false, fmt.Errorf("slack usergroups.users.list: %w", err)
	}
	if slices.Contains(members, member.ID) {
		return true, nil
	}

	updated := append(slices.Clone(members), member.ID)
	var updateOpts []slackapi.UpdateUserGroupMembersOption
	if teamID != "" {
		updateOpts = append(updateOpts, slackapi.UpdateUserGroupMembersOptionTeamID(teamID))
	}
	if _, err := d.client.UpdateUserGroupMembersContext(ctx, role.ID, strings.Join(updated, ","), updateOpts...); err != nil {
		return false, fmt.Errorf("slack usergroups.users.update: %w", err)
	}
	return false, nil
}
