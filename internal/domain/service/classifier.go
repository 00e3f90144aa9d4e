package service

import (
	"errors"
	"strings"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// Classify maps a webhook dispatch result to exactly one Outcome. It never
// panics and never returns nil.
//
//	transport error, kind decode        -> UnrecognizedReply (raw body)
//	any other error                     -> TransportFailure
//	status "error"                      -> NotFound
//	status "ok", query, name            -> Found
//	status "ok", whitelist, external id -> Found
//	anything else                       -> UnrecognizedReply
func Classify(intent model.Intent, reply model.WebhookReply, err error) model.Outcome {
	if err != nil {
		var te *outbound.TransportError
		if errors.As(err, &te) && te.Kind == outbound.TransportDecode {
			return model.UnrecognizedReply{Raw: te.Body}
		}
		return model.TransportFailure{Cause: err}
	}

	switch reply.Status {
	case model.ReplyStatusError:
		return model.NotFound{}
	case model.ReplyStatusOK:
		return classifyOK(intent, reply)
	default:
		return model.UnrecognizedReply{Raw: reply.Raw}
	}
}

// classifyOK treats a missing required field as a malformed reply.
func classifyOK(intent model.Intent, reply model.WebhookReply) model.Outcome {
	name := strings.TrimSpace(reply.Name)
	if intent == model.IntentWhitelist {
		externalID := strings.TrimSpace(reply.ExternalUserID)
		if externalID == "" {
			return model.UnrecognizedReply{Raw: reply.Raw}
		}
		return model.Found{DisplayName: name, ExternalUserID: externalID}
	}
	if name == "" {
		return model.UnrecognizedReply{Raw: reply.Raw}
	}
	return model.Found{DisplayName: name, ExternalUserID: strings.TrimSpace(reply.ExternalUserID)}
}
