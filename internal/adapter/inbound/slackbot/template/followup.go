package template

import (
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// maxDetailRunes keeps detail blocks under the Block Kit section text limit.
const maxDetailRunes = 2900

// levelEmoji maps a follow-up level to an emoji prefix.
func levelEmoji(level outbound.MessageLevel) string {
	switch level {
	case outbound.LevelSuccess:
		return ":white_check_mark:"
	case outbound.LevelNotFound:
		return ":mag:"
	case outbound.LevelInvalid:
		return ":warning:"
	case outbound.LevelFailure:
		return ":x:"
	default:
		return ":information_source:"
	}
}

// FollowUpText returns the plain-text fallback for a follow-up. Slack shows
// it in notifications and clients that cannot render blocks.
func FollowUpText(msg outbound.FollowUpMessage) string {
	return fmt.Sprintf("%s %s", levelEmoji(msg.Level), msg.Text)
}

// BuildFollowUpBlocks constructs Block Kit blocks for a follow-up message.
func BuildFollowUpBlocks(msg outbound.FollowUpMessage) []slackapi.Block {
	header := slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, FollowUpText(msg), false, false),
		nil, nil,
	)
	blocks := []slackapi.Block{header}

	if msg.Detail != "" {
		detail := slackapi.NewSectionBlock(
			slackapi.NewTextBlockObject(slackapi.MarkdownType,
				fmt.Sprintf("```\n%s\n```", clip(msg.Detail, maxDetailRunes)), false, false),
			nil, nil,
		)
		blocks = append(blocks, detail)
	}

	return blocks
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
