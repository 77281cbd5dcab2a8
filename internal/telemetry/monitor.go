package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Monitor is the optional loopback HTTP server exposing liveness and
// metrics. It never carries tool traffic; the MCP transport is stdio.
type Monitor struct {
	srv *http.Server
	log *slog.Logger
}

// NewMonitor builds the monitoring server on addr (typically a loopback
// address such as 127.0.0.1:9464).
func NewMonitor(addr string, metrics *Metrics, log *slog.Logger) *Monitor {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	return &Monitor{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start serves in a background goroutine and returns immediately.
func (m *Monitor) Start() {
	go func() {
		m.log.Info("monitor listening", "addr", m.srv.Addr)
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error("monitor server failed", "error", err)
		}
	}()
}

// Shutdown drains the server.
func (m *Monitor) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (m *Monitor) Handler() http.Handler { return m.srv.Handler }
