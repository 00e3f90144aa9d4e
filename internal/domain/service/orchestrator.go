package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/inbound"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// Config holds orchestrator settings.
type Config struct {
	RoleName string
}

// Orchestrator runs one trigger end to end: dispatch, classify, optionally
// grant a role, render and deliver the follow-up. It holds no per-trigger
// state and is safe for concurrent use.
type Orchestrator struct {
	cfg       Config
	gateway   outbound.WebhookGateway
	responder outbound.Responder
	grants    *RoleGrantExecutor
	audits    outbound.GrantRecordRepository
	logger    *slog.Logger
}

// NewOrchestrator creates an Orchestrator. audits may be nil.
func NewOrchestrator(
	cfg Config,
	gateway outbound.WebhookGateway,
	responder outbound.Responder,
	grants *RoleGrantExecutor,
	audits outbound.GrantRecordRepository,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:       cfg,
		gateway:   gateway,
		responder: responder,
		grants:    grants,
		audits:    audits,
		logger:    logger,
	}
}

var _ inbound.TriggerPort = (*Orchestrator)(nil)

// HandleLookup implements inbound.TriggerPort.
func (o *Orchestrator) HandleLookup(ctx context.Context, req model.LookupRequest) error {
	logger := o.logger.With(
		"trigger_id", req.ID,
		"intent", string(req.Intent),
		"player_id", req.PlayerID,
	)

	var msg outbound.FollowUpMessage
	if !req.Valid() {
		logger.Warn("rejecting invalid lookup request")
		msg = RenderInvalidRequest()
	} else {
		msg = o.resolve(ctx, logger, req)
	}

	if err := o.responder.FollowUp(ctx, req.Context, msg); err != nil {
		logger.Error("follow-up delivery failed", "level", string(msg.Level), "error", err)
		return fmt.Errorf("sending follow-up: %w", err)
	}
	logger.Info("lookup completed", "level", string(msg.Level))
	return nil
}

// resolve performs the single webhook call and, for whitelist lookups that
// resolved a member id, the role grant.
func (o *Orchestrator) resolve(ctx context.Context, logger *slog.Logger, req model.LookupRequest) outbound.FollowUpMessage {
	reply, err := o.gateway.Dispatch(ctx, req)
	outcome := Classify(req.Intent, reply, err)

	switch oc := outcome.(type) {
	case model.TransportFailure:
		logger.Warn("webhook dispatch failed", append(transportAttrs(err), "error", err)...)
	case model.UnrecognizedReply:
		logger.Warn("unrecognized webhook reply", "raw", oc.Raw)
	default:
		logger.Debug("webhook replied", "status", reply.Status, "raw", reply.Raw)
	}

	found, ok := outcome.(model.Found)
	if !ok || req.Intent != model.IntentWhitelist {
		return RenderOutcome(req, outcome)
	}

	result := o.grants.Grant(ctx, found.ExternalUserID, o.cfg.RoleName, req.Context.TeamID)
	logger.Info("role grant attempted",
		"external_user_id", found.ExternalUserID,
		"role", o.cfg.RoleName,
		"result", string(result.Kind()),
	)
	o.recordGrant(ctx, logger, req, found, result)
	return RenderGrant(req, found, o.cfg.RoleName, result)
}

func (o *Orchestrator) recordGrant(ctx context.Context, logger *slog.Logger, req model.LookupRequest, found model.Found, result model.RoleGrantResult) {
	if o.audits == nil {
		return
	}
	rec := model.NewGrantRecord(req, found.ExternalUserID, o.cfg.RoleName, result)
	if err := o.audits.Create(ctx, rec); err != nil {
		logger.Warn("writing grant record failed", "error", err)
	}
}

func transportAttrs(err error) []any {
	var te *outbound.TransportError
	if !errors.As(err, &te) {
		return []any{"kind", "unknown"}
	}
	attrs := []any{"kind", string(te.Kind)}
	if te.StatusCode != 0 {
		attrs = append(attrs, "status_code", te.StatusCode)
	}
	return attrs
}
