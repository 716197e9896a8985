package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Health reports service liveness for the /healthz endpoint. The probe
// funcs are read on each request; nil funcs report zero values.
type Health struct {
	StartedAt     time.Time
	ActiveFn      func() bool
	SubscribersFn func() int
}

// ServeHTTP handles the /healthz endpoint.
func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	active := false
	if h.ActiveFn != nil {
		active = h.ActiveFn()
	}
	subs := 0
	if h.SubscribersFn != nil {
		subs = h.SubscribersFn()
	}

	status := struct {
		Status      string `json:"status"`
		Uptime      string `json:"uptime"`
		Active      bool   `json:"active"`
		Subscribers int    `json:"subscribers"`
	}{
		Status:      "ok",
		Uptime:      time.Since(h.StartedAt).Round(time.Second).String(),
		Active:      active,
		Subscribers: subs,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *Health, log *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", health)

	return &Server{
		srv: &http.Server{Addr: addr, Handler: mux},
		log: log,
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("metrics server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			s.log.Error("metrics server error", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
