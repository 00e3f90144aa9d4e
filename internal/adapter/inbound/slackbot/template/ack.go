package template

import (
	"fmt"
	"strings"
)

// CommandAckText builds the in-channel acknowledgement for a lookup command.
// notifyGroup is a user group ID; when set the group is mentioned so it can
// follow along.
func CommandAckText(playerID, notifyGroup string) string {
	text := fmt.Sprintf(":hourglass_flowing_sand: Looking up `%s`...", Sanitize(playerID))
	if notifyGroup != "" {
		text += fmt.Sprintf(" <!subteam^%s>", notifyGroup)
	}
	return text
}

// UsageText is sent ephemerally when the command arrives without a player id.
func UsageText(command, usageHint string) string {
	return fmt.Sprintf(":information_source: Usage: `%s %s`", command, usageHint)
}

// Sanitize makes user input safe to wrap in inline code.
func Sanitize(s string) string {
	if len(s) > 100 {
		s = s[:100]
	}
	return strings.ReplaceAll(s, "`", "'")
}
