package model

import "strings"

// CommandDescriptor describes the single slash command the bridge serves.
// It is built once at startup and never mutated.
type CommandDescriptor struct {
	Name        string
	Description string
	OptionName  string
	UsageHint   string
}

// DefaultCommand returns the /w lookup command.
func DefaultCommand() CommandDescriptor {
	return CommandDescriptor{
		Name:        "/w",
		Description: "Look up a Minecraft player",
		OptionName:  "id",
		UsageHint:   "[player id]",
	}
}

// WithName returns a copy with the command name normalised to a leading slash.
func (c CommandDescriptor) WithName(name string) CommandDescriptor {
	name = strings.TrimSpace(name)
	if name == "" {
		return c
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	c.Name = name
	return c
}

// Matches reports whether a received command name refers to this command.
func (c CommandDescriptor) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), c.Name)
}
