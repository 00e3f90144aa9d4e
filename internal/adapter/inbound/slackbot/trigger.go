package slackbot

import (
	"regexp"
	"strings"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/jonny/playerbridge/internal/domain/model"
)

var whitelistPattern = regexp.MustCompile(`(?i)^whitelist add (\w+)$`)

// Subtypes still authored by a person. Everything else (edits, deletes,
// joins, bot posts) is ignored.
var humanSubtypes = map[string]bool{
	"":                 true,
	"thread_broadcast": true,
	"file_share":       true,
}

// commandRequest builds a Query request from a slash command. ok is false
// when the command text carries no player id.
func commandRequest(cmd slackapi.SlashCommand) (req model.LookupRequest, ok bool) {
	fields := strings.Fields(cmd.Text)
	if len(fields) == 0 {
		return model.LookupRequest{}, false
	}
	tag := cmd.UserName
	if tag == "" {
		tag = cmd.UserID
	}
	req = model.NewLookupRequest(model.IntentQuery, fields[0],
		model.UserRef{ID: cmd.UserID, Tag: tag},
		model.ConversationRef{
			TeamID:      cmd.TeamID,
			ChannelID:   cmd.ChannelID,
			ResponseURL: cmd.ResponseURL,
		},
	)
	return req, true
}

// whitelistRequest builds a Whitelist request from a channel message, or
// reports false when the message is not a whitelist command.
func whitelistRequest(ev *slackevents.MessageEvent, teamID, privilegedChannel string) (model.LookupRequest, bool) {
	if ev == nil || privilegedChannel == "" {
		return model.LookupRequest{}, false
	}
	if ev.BotID != "" || !humanSubtypes[ev.SubType] || ev.User == "" {
		return model.LookupRequest{}, false
	}
	if ev.Channel != privilegedChannel {
		return model.LookupRequest{}, false
	}

	m := whitelistPattern.FindStringSubmatch(strings.TrimSpace(ev.Text))
	if m == nil {
		return model.LookupRequest{}, false
	}

	req := model.NewLookupRequest(model.IntentWhitelist, m[1],
		model.UserRef{ID: ev.User, Tag: ev.User},
		model.ConversationRef{
			TeamID:    teamID,
			ChannelID: ev.Channel,
			MessageTS: ev.TimeStamp,
		},
	)
	return req, true
}
