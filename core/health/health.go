// Package health serves a small HTTP status endpoint next to the bot.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/playbot/core/logger"
)

const component = "health"

// Stats is the runtime snapshot reported by /healthz.
type Stats struct {
	Users            int    `json:"users"`
	Sessions         int    `json:"sessions"`
	PendingReminders int    `json:"pending_reminders"`
	Mode             string `json:"mode,omitempty"`
	Version          string `json:"version"`
}

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the health server.
type Options struct {
	Listen string
	Stats  func() Stats
	// DB is checked on every request when set.
	DB Pinger
	// Now defaults to time.Now.
	Now func() time.Time
	// PingTimeout bounds the database check. Defaults to 2s.
	PingTimeout time.Duration
}

// Server exposes GET /healthz.
type Server struct {
	opts    Options
	started time.Time
	srv     *http.Server
}

type report struct {
	Status        string            `json:"status"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks,omitempty"`
	Stats
}

// New builds a Server; nothing listens until Start.
func New(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 2 * time.Second
	}
	if opts.Stats == nil {
		opts.Stats = func() Stats { return Stats{} }
	}
	s := &Server{opts: opts, started: opts.Now()}
	s.srv = &http.Server{
		Addr:              opts.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Get("/healthz", s.healthz)
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	rep := report{
		Status:        "ok",
		UptimeSeconds: int64(s.opts.Now().Sub(s.started) / time.Second),
		Stats:         s.opts.Stats(),
	}
	code := http.StatusOK
	if s.opts.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.opts.PingTimeout)
		defer cancel()
		rep.Checks = map[string]string{"database": "ok"}
		if err := s.opts.DB.PingContext(ctx); err != nil {
			logger.Warn(ctx, component, "check.database",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
			rep.Status = "degraded"
			rep.Checks["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, rep)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Start binds the listener and serves in the background. Listen errors
// are returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	logger.Info(ctx, component, "listen", slog.String("addr", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), component, "serve",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}()
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
