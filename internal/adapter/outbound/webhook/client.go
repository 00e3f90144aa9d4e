package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

const (
	defaultTimeout = 30 * time.Second
	maxReplyBytes  = 1 << 20
	maxStatusBody  = 512
)

// externalIDKeys are checked in order; the first non-empty value wins.
var externalIDKeys = []string{"externalUserId", "discordId", "slackId"}

// Config holds configuration for the webhook client.
type Config struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
}

// Client implements outbound.WebhookGateway with a single JSON POST per lookup.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ outbound.WebhookGateway = (*Client)(nil)

// NewClient creates a new Client with the given configuration.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	lower := strings.ToLower(cfg.URL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil, fmt.Errorf("unsupported webhook url scheme: %q", cfg.URL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

type lookupPayload struct {
	ID   string `json:"id"`
	User string `json:"user,omitempty"`
}

// Dispatch posts the lookup to the webhook exactly once and decodes the reply.
// Every failure is returned as *outbound.TransportError.
func (c *Client) Dispatch(ctx context.Context, req model.LookupRequest) (model.WebhookReply, error) {
	payload := lookupPayload{ID: req.PlayerID}
	if req.Intent == model.IntentQuery {
		payload.User = req.Requester.Tag
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return model.WebhookReply{}, fmt.Errorf("encoding webhook request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(encoded))
	if err != nil {
		return model.WebhookReply{}, fmt.Errorf("creating webhook request: %w", err)
	}
	for key, value := range c.config.Headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.WebhookReply{}, &outbound.TransportError{Kind: outbound.TransportNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return model.WebhookReply{}, &outbound.TransportError{
			Kind:       outbound.TransportNetwork,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("reading webhook response: %w", err),
		}
	}

	c.logger.Debug("webhook responded",
		"trigger_id", req.ID,
		"status_code", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.WebhookReply{}, &outbound.TransportError{
			Kind:       outbound.TransportStatus,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxStatusBody),
		}
	}

	return ParseReply(body)
}

// ParseReply extracts the known fields from a webhook body. A body that is
// not valid JSON yields a decode TransportError carrying the raw text.
func ParseReply(body []byte) (model.WebhookReply, error) {
	if !gjson.ValidBytes(body) {
		return model.WebhookReply{}, &outbound.TransportError{
			Kind: outbound.TransportDecode,
			Body: string(body),
			Err:  fmt.Errorf("webhook reply is not valid JSON"),
		}
	}

	result := gjson.ParseBytes(body)
	reply := model.WebhookReply{
		Status: scalar(result.Get("status")),
		Name:   scalar(result.Get("name")),
		Raw:    string(body),
	}
	for _, key := range externalIDKeys {
		if id := strings.TrimSpace(scalar(result.Get(key))); id != "" {
			reply.ExternalUserID = id
			break
		}
	}
	return reply, nil
}

// scalar returns the text of a string or number value. Objects, arrays,
// booleans and null read as empty.
func scalar(value gjson.Result) string {
	if !value.Exists() {
		return ""
	}
	switch value.Type {
	case gjson.String, gjson.Number:
		return value.String()
	default:
		return ""
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
