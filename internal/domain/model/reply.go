package model

const (
	ReplyStatusOK    = "ok"
	ReplyStatusError = "error"
)

// WebhookReply is the decoded backend answer. Nothing about its shape is
// guaranteed: Status may be empty or unknown and any field may be missing.
type WebhookReply struct {
	Status         string
	Name           string
	ExternalUserID string
	Raw            string
}
