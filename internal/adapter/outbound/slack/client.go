package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// Config holds Slack Web API client configuration.
type Config struct {
	BotToken string
	AppToken string
	// APIURL overrides the Web API base URL. It must end with a slash.
	APIURL string
}

// NewClient creates the shared Web API client used by the bot and the
// outbound adapters.
func NewClient(cfg Config) *slackapi.Client {
	opts := []slackapi.Option{}
	if cfg.AppToken != "" {
		opts = append(opts, slackapi.OptionAppLevelToken(cfg.AppToken))
	}
	if cfg.APIURL != "" {
		opts = append(opts, slackapi.OptionAPIURL(cfg.APIURL))
	}
	return slackapi.New(cfg.BotToken, opts...)
}

// Identity is the authenticated bot as reported by auth.test.
type Identity struct {
	TeamID string
	Team   string
	UserID string
	User   string
	BotID  string
}

// Login verifies the bot token. A failure here means the bot cannot operate.
func Login(ctx context.Context, client *slackapi.Client) (Identity, error) {
	resp, err := client.AuthTestContext(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("slack auth.test: %w", err)
	}
	return Identity{
		TeamID: resp.TeamID,
		Team:   resp.Team,
		UserID: resp.UserID,
		User:   resp.User,
		BotID:  resp.BotID,
	}, nil
}

// HealthCheck returns a readiness probe that calls auth.test.
func HealthCheck(client *slackapi.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := Login(ctx, client)
		return err
	}
}
