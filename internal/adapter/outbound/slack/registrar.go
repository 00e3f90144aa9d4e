package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// RegistrarConfig holds the credentials for the app manifest API.
type RegistrarConfig struct {
	ConfigToken string
	AppID       string
}

// Registrar implements outbound.CommandRegistrar by upserting the slash
// command into the app manifest.
type Registrar struct {
	client *slackapi.Client
	config RegistrarConfig
}

var _ outbound.CommandRegistrar = (*Registrar)(nil)

// NewRegistrar creates a new Registrar.
func NewRegistrar(client *slackapi.Client, cfg RegistrarConfig) *Registrar {
	return &Registrar{client: client, config: cfg}
}

// Register exports the manifest and writes it back only when the command
// entry differs from cmd.
func (r *Registrar) Register(ctx context.Context, cmd model.CommandDescriptor) (bool, error) {
	manifest, err := r.client.ExportManifestContext(ctx, r.config.ConfigToken, r.config.AppID)
	if err != nil {
		return false, fmt.Errorf("slack apps.manifest.export: %w", err)
	}

	if !upsertSlashCommand(manifest, cmd) {
		return false, nil
	}

	if _, err := r.client.UpdateManifestContext(ctx, manifest, r.config.ConfigToken, r.config.AppID); err != nil {
		return false, fmt.Errorf("slack apps.manifest.update: %w", err)
	}
	return true, nil
}

// upsertSlashCommand reports whether the manifest was modified.
func upsertSlashCommand(manifest *slackapi.Manifest, cmd model.CommandDescriptor) bool {
	for i, existing := range manifest.Features.SlashCommands {
		if !cmd.Matches(existing.Command) {
			continue
		}
		if existing.Description == cmd.Description && existing.UsageHint == cmd.UsageHint {
			return false
		}
		manifest.Features.SlashCommands[i].Description = cmd.Description
		manifest.Features.SlashCommands[i].UsageHint = cmd.UsageHint
		return true
	}
	manifest.Features.SlashCommands = append(manifest.Features.SlashCommands, slackapi.ManifestSlashCommand{
		Command:     cmd.Name,
		Description: cmd.Description,
		UsageHint:   cmd.UsageHint,
	})
	return true
}
