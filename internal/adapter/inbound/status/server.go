package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jonny/playerbridge/internal/adapter/inbound/status/middleware"
	"github.com/jonny/playerbridge/internal/domain/model"
	"github.com/jonny/playerbridge/internal/domain/port/outbound"
	"github.com/jonny/playerbridge/pkg/apierror"
	"github.com/jonny/playerbridge/pkg/health"
	"github.com/jonny/playerbridge/pkg/version"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimit       int
}

// Server exposes liveness, readiness and the grant audit trail over HTTP.
type Server struct {
	cfg     ServerConfig
	checker *health.Checker
	grants  outbound.GrantRecordRepository
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// NewServer creates a new Server. grants may be nil, in which case /grants
// is not served.
func NewServer(cfg ServerConfig, checker *health.Checker, grants outbound.GrantRecordRepository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		cfg:     cfg,
		checker: checker,
		grants:  grants,
		limiter: middleware.NewRateLimiter(cfg.RateLimit),
		logger:  logger,
	}
}

// SetupRoutes builds and returns an http.Handler with all middleware applied.
// Route layout:
//
//	GET /healthz  - Liveness
//	GET /readyz   - Readiness (registered checks)
//	GET /version  - Build information
//	GET /grants   - Role grant audit trail
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.checker.LivenessHandler())
	mux.HandleFunc("GET /readyz", s.checker.ReadinessHandler())
	mux.HandleFunc("GET /version", versionHandler)
	if s.grants != nil {
		mux.HandleFunc("GET /grants", s.listGrants)
	}

	// Outermost first: Logging -> SecurityHeaders -> RateLimit
	var h http.Handler = mux
	h = s.limiter.Middleware(h)
	h = middleware.SecurityHeaders(h)
	h = middleware.Logging(s.logger)(h)

	return h
}

// Start starts the HTTP server and blocks until ctx is cancelled, then performs
// a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.SetupRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go s.limiter.Run(limiterCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", "port", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("status server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		return nil
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":      version.Name,
		"version":   version.Version,
		"commit":    version.Commit,
		"buildTime": version.BuildTime,
	})
}

// grantsResponse is the JSON page returned by /grants.
type grantsResponse struct {
	Items      []model.GrantRecord `json:"items"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
}

func (s *Server) listGrants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := outbound.GrantFilter{
		PlayerID:       q.Get("player_id"),
		ExternalUserID: q.Get("external_user_id"),
		Result:         model.GrantResultKind(q.Get("result")),
		RequestedBy:    q.Get("requested_by"),
	}
	var err error
	if filter.Since, err = parseTime(q.Get("since")); err != nil {
		middleware.WriteError(w, apierror.WithDetail(http.StatusBadRequest, "invalid since", err.Error()))
		return
	}
	if filter.Until, err = parseTime(q.Get("until")); err != nil {
		middleware.WriteError(w, apierror.WithDetail(http.StatusBadRequest, "invalid until", err.Error()))
		return
	}

	page := outbound.PageRequest{OrderBy: q.Get("order_by"), Desc: q.Get("desc") == "true"}
	if page.Page, err = parseInt(q.Get("page")); err != nil {
		middleware.WriteError(w, apierror.BadRequest("invalid page"))
		return
	}
	if page.Size, err = parseInt(q.Get("size")); err != nil || page.Size > 100 {
		middleware.WriteError(w, apierror.BadRequest("invalid size"))
		return
	}

	result, err := s.grants.List(r.Context(), filter, page)
	if errors.Is(err, outbound.ErrInvalidPage) {
		middleware.WriteError(w, apierror.WithDetail(http.StatusBadRequest, "invalid page request", err.Error()))
		return
	}
	if err != nil {
		s.logger.Warn("listing grant records failed", "error", err)
		middleware.WriteError(w, apierror.Internal("listing grant records failed"))
		return
	}

	items := result.Items
	if items == nil {
		items = []model.GrantRecord{}
	}
	writeJSON(w, http.StatusOK, grantsResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Size:       result.Size,
	})
}

func parseTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
