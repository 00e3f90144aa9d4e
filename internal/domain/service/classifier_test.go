package service_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
	"github.com/jonny/playerbridge/internal/domain/service"
)

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name   string
		intent model.Intent
		reply  model.WebhookReply
		err    error
		want   model.Outcome
	}{
		{
			name:   "query ok with name",
			intent: model.IntentQuery,
			reply:  model.WebhookReply{Status: "ok", Name: "Notch", Raw: `{"status":"ok","name":"Notch"}`},
			want:   model.Found{DisplayName: "Notch"},
		},
		{
			name:   "query ok without name",
			intent: model.IntentQuery,
			reply:  model.WebhookReply{Status: "ok", Raw: `{"status":"ok"}`},
			want:   model.UnrecognizedReply{Raw: `{"status":"ok"}`},
		},
		{
			name:   "query ok with blank name",
			intent: model.IntentQuery,
			reply:  model.WebhookReply{Status: "ok", Name: "   ", Raw: `{"status":"ok","name":"   "}`},
			want:   model.UnrecognizedReply{Raw: `{"status":"ok","name":"   "}`},
		},
		{
			name:   "error status",
			intent: model.IntentQuery,
			reply:  model.WebhookReply{Status: "error", Raw: `{"status":"error"}`},
			want:   model.NotFound{},
		},
		{
			name:   "error status ignores other fields",
			intent: model.IntentWhitelist,
			reply:  model.WebhookReply{Status: "error", Name: "Notch", ExternalUserID: "U1"},
			want:   model.NotFound{},
		},
		{
			name:   "unknown status",
			intent: model.IntentQuery,
			reply:  model.WebhookReply{Status: "pending", Name: "Notch", Raw: `{"status":"pending"}`},
			want:   model.UnrecognizedReply{Raw: `{"status":"pending"}`},
		},
		{
			name:   "missing status",
			intent: model.IntentQuery,
			reply:  model.WebhookReply{Raw: `[]`},
			want:   model.UnrecognizedReply{Raw: `[]`},
		},
		{
			name:   "status is case sensitive",
			intent: model.IntentQuery,
			reply:  model.WebhookReply{Status: "OK", Name: "Notch", Raw: `{"status":"OK"}`},
			want:   model.UnrecognizedReply{Raw: `{"status":"OK"}`},
		},
		{
			name:   "whitelist ok with external id",
			intent: model.IntentWhitelist,
			reply:  model.WebhookReply{Status: "ok", ExternalUserID: "123"},
			want:   model.Found{ExternalUserID: "123"},
		},
		{
			name:   "whitelist ok with name and external id",
			intent: model.IntentWhitelist,
			reply:  model.WebhookReply{Status: "ok", Name: "Notch", ExternalUserID: "U123"},
			want:   model.Found{DisplayName: "Notch", ExternalUserID: "U123"},
		},
		{
			name:   "whitelist ok without external id",
			intent: model.IntentWhitelist,
			reply:  model.WebhookReply{Status: "ok", Name: "Notch", Raw: `{"status":"ok","name":"Notch"}`},
			want:   model.UnrecognizedReply{Raw: `{"status":"ok","name":"Notch"}`},
		},
		{
			name:   "decode failure",
			intent: model.IntentQuery,
			err:    &outbound.TransportError{Kind: outbound.TransportDecode, Body: "<html>", Err: errors.New("invalid json")},
			want:   model.UnrecognizedReply{Raw: "<html>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.Classify(tt.intent, tt.reply, tt.err)
			if got != tt.want {
				t.Errorf("Classify() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestClassify_TransportErrors(t *testing.T) {
	errs := []error{
		&outbound.TransportError{Kind: outbound.TransportNetwork, Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
		&outbound.TransportError{Kind: outbound.TransportStatus, StatusCode: 502, Body: "bad gateway"},
		fmt.Errorf("dispatch: %w", &outbound.TransportError{Kind: outbound.TransportNetwork, Err: context.DeadlineExceeded}),
		errors.New("untyped failure"),
	}

	for _, err := range errs {
		for _, intent := range []model.Intent{model.IntentQuery, model.IntentWhitelist} {
			got := service.Classify(intent, model.WebhookReply{Status: "ok", Name: "ignored"}, err)
			tf, ok := got.(model.TransportFailure)
			if !ok {
				t.Fatalf("Classify(%v) = %T, want TransportFailure", err, got)
			}
			if !errors.Is(tf.Cause, err) {
				t.Errorf("cause = %v, want %v", tf.Cause, err)
			}
		}
	}
}

func TestClassify_OnlyErrorsProduceTransportFailure(t *testing.T) {
	replies := []model.WebhookReply{
		{},
		{Status: "ok"},
		{Status: "ok", Name: "Notch"},
		{Status: "error"},
		{Status: "timeout"},
		{Status: "ok", ExternalUserID: "U1"},
	}
	for _, reply := range replies {
		for _, intent := range []model.Intent{model.IntentQuery, model.IntentWhitelist} {
			if got := service.Classify(intent, reply, nil); got.Kind() == model.OutcomeTransportFailure {
				t.Errorf("Classify(%s, %+v, nil) produced TransportFailure", intent, reply)
			}
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	reply := model.WebhookReply{Status: "ok", Name: "Notch"}
	first := service.Classify(model.IntentQuery, reply, nil)
	for i := 0; i < 5; i++ {
		if got := service.Classify(model.IntentQuery, reply, nil); got != first {
			t.Fatalf("classification changed on call %d: %#v vs %#v", i, got, first)
		}
	}
	if f, ok := first.(model.Found); !ok || f.DisplayName != "Notch" {
		t.Errorf("expected Found{Notch}, got %#v", first)
	}
}
