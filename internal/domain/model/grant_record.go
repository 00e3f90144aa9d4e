package model

import (
	"time"
)

// GrantRecord is the audit row written for every executed role grant attempt.
type GrantRecord struct {
	ID             string          `json:"id"`
	TriggerID      string          `json:"trigger_id"`
	PlayerID       string          `json:"player_id"`
	ExternalUserID string          `json:"external_user_id"`
	RoleName       string          `json:"role_name"`
	Result         GrantResultKind `json:"result"`
	Detail         string          `json:"detail"`
	RequestedBy    string          `json:"requested_by"`
	ChannelID      string          `json:"channel_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewGrantRecord builds the audit row for a grant attempt made on behalf of req.
func NewGrantRecord(req LookupRequest, externalUserID, roleName string, result RoleGrantResult) GrantRecord {
	rec := GrantRecord{
		ID:             generateID(),
		TriggerID:      req.ID,
		PlayerID:       req.PlayerID,
		ExternalUserID: externalUserID,
		RoleName:       roleName,
		Result:         result.Kind(),
		RequestedBy:    req.Requester.ID,
		ChannelID:      req.Context.ChannelID,
		CreatedAt:      time.Now().UTC(),
	}
	switch r := result.(type) {
	case Granted:
		rec.Detail = r.Role.ID
		if r.AlreadyMember {
			rec.Detail += " (already member)"
		}
	case GrantFailed:
		if r.Cause != nil {
			rec.Detail = r.Cause.Error()
		}
	}
	return rec
}
