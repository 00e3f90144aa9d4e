package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
)

// --- fake webhook gateway ---

type fakeGateway struct {
	mu       sync.Mutex
	replies  map[string]model.WebhookReply
	errs     map[string]error
	requests []model.LookupRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		replies: make(map[string]model.WebhookReply),
		errs:    make(map[string]error),
	}
}

func (g *fakeGateway) Dispatch(_ context.Context, req model.LookupRequest) (model.WebhookReply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if err, ok := g.errs[req.PlayerID]; ok {
		return model.WebhookReply{}, err
	}
	return g.replies[req.PlayerID], nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

var _ outbound.WebhookGateway = (*fakeGateway)(nil)

// --- fake responder ---

type sentMessage struct {
	conv model.ConversationRef
	msg  outbound.FollowUpMessage
}

type fakeResponder struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (r *fakeResponder) FollowUp(_ context.Context, conv model.ConversationRef, msg outbound.FollowUpMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMessage{conv: conv, msg: msg})
	return nil
}

func (r *fakeResponder) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentMessage, len(r.sent))
	copy(out, r.sent)
	return out
}

var _ outbound.Responder = (*fakeResponder)(nil)

// --- fake role directory ---

type fakeRoles struct {
	mu        sync.Mutex
	members   map[string]model.MemberRef
	roles     map[string]model.RoleRef
	memberErr error
	roleErr   error
	addErr    error
	already   bool
	added     []string
	lookups   int
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		members: make(map[string]model.MemberRef),
		roles:   make(map[string]model.RoleRef),
	}
}

func (f *fakeRoles) FindMember(_ context.Context, _ string, userID string) (*model.MemberRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	m, ok := f.members[userID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeRoles) FindRole(_ context.Context, _ string, name string) (*model.RoleRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	r, ok := f.roles[name]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRoles) AddRole(_ context.Context, _ string, member model.MemberRef, role model.RoleRef) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return false, f.addErr
	}
	f.added = append(f.added, member.ID+"->"+role.ID)
	return f.already, nil
}

func (f *fakeRoles) mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.added))
	copy(out, f.added)
	return out
}

var _ outbound.RoleDirectory = (*fakeRoles)(nil)

// --- fake grant record repository ---

type fakeAudits struct {
	mu      sync.Mutex
	records []model.GrantRecord
	err     error
}

func (a *fakeAudits) Create(_ context.Context, rec model.GrantRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, rec)
	return nil
}

func (a *fakeAudits) List(_ context.Context, _ outbound.GrantFilter, _ outbound.PageRequest) (outbound.PageResult[model.GrantRecord], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return outbound.PageResult[model.GrantRecord]{Items: a.records, TotalCount: int64(len(a.records))}, nil
}

var _ outbound.GrantRecordRepository = (*fakeAudits)(nil)

var errRefused = errors.New("dial tcp 127.0.0.1:5678: connect: connection refused")
