package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
	"github.com/jonny/playerbridge/pkg/apierror"
	"github.com/jonny/playerbridge/pkg/health"
)

type fakeGrants struct {
	records []model.GrantRecord
	filter  outbound.GrantFilter
	page    outbound.PageRequest
	err     error
}

func (f *fakeGrants) Create(_ context.Context, rec model.GrantRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeGrants) List(_ context.Context, filter outbound.GrantFilter, page outbound.PageRequest) (outbound.PageResult[model.GrantRecord], error) {
	f.filter = filter
	f.page = page
	if f.err != nil {
		return outbound.PageResult[model.GrantRecord]{}, f.err
	}
	return outbound.PageResult[model.GrantRecord]{Items: f.records, TotalCount: int64(len(f.records)), Page: page.Page, Size: 20}, nil
}

func newTestServer(t *testing.T, grants outbound.GrantRecordRepository, checks map[string]health.CheckFunc) http.Handler {
	t.Helper()
	checker := health.NewChecker()
	for name, fn := range checks {
		checker.Register(name, fn)
	}
	srv := NewServer(ServerConfig{RateLimit: 1000}, checker, grants, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return srv.SetupRoutes()
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := do(h, http.MethodGet, "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "running" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

func TestReadyz(t *testing.T) {
	h := newTestServer(t, nil, map[string]health.CheckFunc{
		"database": func(context.Context) error { return nil },
		"slack":    func(context.Context) error { return errors.New("invalid_auth") },
	})
	rec := do(h, http.MethodGet, "/readyz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	h = newTestServer(t, nil, map[string]health.CheckFunc{
		"database": func(context.Context) error { return nil },
	})
	if rec := do(h, http.MethodGet, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestVersion(t *testing.T) {
	rec := do(newTestServer(t, nil, nil), http.MethodGet, "/version")
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["name"] != "playerbridge" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(newTestServer(t, nil, nil), http.MethodPost, "/healthz")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestGrants_NotServedWithoutRepository(t *testing.T) {
	rec := do(newTestServer(t, nil, nil), http.MethodGet, "/grants")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGrants_List(t *testing.T) {
	grants := &fakeGrants{records: []model.GrantRecord{{ID: "g1", PlayerID: "Notch", Result: model.GrantGranted}}}
	h := newTestServer(t, grants, nil)

	rec := do(h, http.MethodGet, "/grants?player_id=Notch&result=granted&since=2026-01-01T00:00:00Z&page=1&size=5&desc=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body grantsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.TotalCount != 1 || len(body.Items) != 1 || body.Items[0].ID != "g1" {
		t.Errorf("body = %+v", body)
	}
	if grants.filter.PlayerID != "Notch" || grants.filter.Result != model.GrantGranted || grants.filter.Since == nil {
		t.Errorf("filter = %+v", grants.filter)
	}
	if grants.page.Page != 1 || grants.page.Size != 5 || !grants.page.Desc {
		t.Errorf("page = %+v", grants.page)
	}
}

func TestGrants_EmptyListIsArray(t *testing.T) {
	rec := do(newTestServer(t, &fakeGrants{}, nil), http.MethodGet, "/grants")
	var raw map[string]json.RawMessage
	json.Unmarshal(rec.Body.Bytes(), &raw)
	if string(raw["items"]) != "[]" {
		t.Errorf("items = %s, want []", raw["items"])
	}
}

func TestGrants_BadRequests(t *testing.T) {
	h := newTestServer(t, &fakeGrants{err: fmt.Errorf("%w: order column %q", outbound.ErrInvalidPage, "x")}, nil)
	for _, target := range []string{
		"/grants?since=yesterday",
		"/grants?until=2026-13-01",
		"/grants?page=-1",
		"/grants?size=abc",
		"/grants?size=500",
		"/grants?order_by=x",
	} {
		rec := do(h, http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
			continue
		}
		var apiErr apierror.Error
		if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil || apiErr.Code != http.StatusBadRequest {
			t.Errorf("%s: body = %s", target, rec.Body.String())
		}
	}
}

func TestGrants_RepositoryError(t *testing.T) {
	h := newTestServer(t, &fakeGrants{err: errors.New("database is locked")}, nil)
	if rec := do(h, http.MethodGet, "/grants"); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	srv := NewServer(ServerConfig{RateLimit: 2}, health.NewChecker(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := srv.SetupRoutes()

	for i := 0; i < 2; i++ {
		if rec := do(h, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := do(h, http.MethodGet, "/healthz")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	var apiErr apierror.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil || apiErr.Code != http.StatusTooManyRequests {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	srv := NewServer(ServerConfig{Port: 0, ShutdownTimeout: time.Second}, health.NewChecker(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
