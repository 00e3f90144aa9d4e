package service

import (
	"fmt"
	"strings"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

const (
	maxRawDetail   = 1500
	maxPlayerIDLen = 100
)

// RenderOutcome turns a lookup Outcome into the follow-up for the trigger's
// conversation. Found outcomes of whitelist lookups go through RenderGrant
// instead.
func RenderOutcome(req model.LookupRequest, outcome model.Outcome) outbound.FollowUpMessage {
	id := sanitize(req.PlayerID)
	prefix := "Lookup"
	if req.Intent == model.IntentWhitelist {
		prefix = "Whitelist"
	}

	switch o := outcome.(type) {
	case model.Found:
		return outbound.FollowUpMessage{
			Level: outbound.LevelSuccess,
			Text:  fmt.Sprintf("%s succeeded: `%s` - %s", prefix, id, displayName(req, o)),
		}
	case model.NotFound:
		return outbound.FollowUpMessage{
			Level: outbound.LevelNotFound,
			Text:  fmt.Sprintf("%s: no data found for `%s`", prefix, id),
		}
	case model.UnrecognizedReply:
		return outbound.FollowUpMessage{
			Level:  outbound.LevelInvalid,
			Text:   fmt.Sprintf("%s: the lookup service sent an unexpected reply for `%s`", prefix, id),
			Detail: truncate(o.Raw, maxRawDetail),
		}
	case model.TransportFailure:
		return outbound.FollowUpMessage{
			Level: outbound.LevelFailure,
			Text:  fmt.Sprintf("%s: something went wrong sending the request for `%s`, please try again later", prefix, id),
		}
	default:
		return outbound.FollowUpMessage{
			Level: outbound.LevelInvalid,
			Text:  fmt.Sprintf("%s: could not interpret the result for `%s`", prefix, id),
		}
	}
}

// RenderGrant turns a role grant result into the follow-up for a whitelist
// trigger.
func RenderGrant(req model.LookupRequest, found model.Found, roleName string, result model.RoleGrantResult) outbound.FollowUpMessage {
	id := sanitize(req.PlayerID)
	name := displayName(req, found)

	switch r := result.(type) {
	case model.Granted:
		verb := "added to"
		if r.AlreadyMember {
			verb = "is already in"
		}
		return outbound.FollowUpMessage{
			Level: outbound.LevelSuccess,
			Text:  fmt.Sprintf("Whitelisted `%s` (%s): <@%s> %s *%s*", id, name, r.Member.ID, verb, r.Role.Name),
		}
	case model.MemberNotFound:
		return outbound.FollowUpMessage{
			Level: outbound.LevelNotFound,
			Text:  fmt.Sprintf("Whitelist `%s`: member `%s` was not found in this workspace", id, sanitize(r.ExternalUserID)),
		}
	case model.RoleNotFound:
		return outbound.FollowUpMessage{
			Level: outbound.LevelNotFound,
			Text:  fmt.Sprintf("Whitelist `%s`: role *%s* does not exist", id, r.RoleName),
		}
	case model.GrantFailed:
		cause := "unknown error"
		if r.Cause != nil {
			cause = r.Cause.Error()
		}
		return outbound.FollowUpMessage{
			Level:  outbound.LevelFailure,
			Text:   fmt.Sprintf("Whitelist `%s`: could not add <@%s> to *%s*", id, sanitize(found.ExternalUserID), roleName),
			Detail: truncate(cause, maxRawDetail),
		}
	default:
		return outbound.FollowUpMessage{
			Level: outbound.LevelInvalid,
			Text:  fmt.Sprintf("Whitelist `%s`: could not interpret the grant result", id),
		}
	}
}

// RenderInvalidRequest answers a trigger that cannot be dispatched.
func RenderInvalidRequest() outbound.FollowUpMessage {
	return outbound.FollowUpMessage{
		Level: outbound.LevelInvalid,
		Text:  "A player id is required",
	}
}

func displayName(req model.LookupRequest, found model.Found) string {
	if found.DisplayName != "" {
		return found.DisplayName
	}
	return sanitize(req.PlayerID)
}

// sanitize keeps user input from breaking out of inline code spans.
func sanitize(s string) string {
	s = truncate(s, maxPlayerIDLen)
	return strings.ReplaceAll(s, "`", "'")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
