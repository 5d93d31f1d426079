// Package http exposes the supervisor's status surface: Prometheus metrics,
// a health probe and a JSON view of the fleet.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/hoist"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/supervisor"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fleet is the supervisor view served over HTTP.
type Fleet interface {
	Status() supervisor.Status
	Handles() []domain.ProcessHandle
}

// Sampler reads per-worker resource usage.
type Sampler func(ctx context.Context, handles []domain.ProcessHandle) []supervisor.Usage

// FleetResponse is the body of GET /fleet.
type FleetResponse struct {
	supervisor.Status
	Usage []supervisor.Usage `json:"usage"`
}

// Server serves the status endpoints.
type Server struct {
	Fleet    Fleet
	Gatherer prometheus.Gatherer
	Sample   Sampler
}

// NewHandler creates the status router.
func NewHandler(fleet Fleet, gatherer prometheus.Gatherer) http.Handler {
	s := &Server{Fleet: fleet, Gatherer: gatherer, Sample: supervisor.Sample}
	return s.Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", s.GetHealth)
	r.Get("/fleet", s.GetFleet)
	r.Get("/info", s.GetInfo)
	return r
}

// GetHealth reports 200 while the fleet is running and 503 otherwise.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	state := s.Fleet.Status().State
	code := http.StatusOK
	if state != supervisor.StateRunning {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"state": state})
}

// GetFleet returns the fleet status with a resource sample per worker.
func (s *Server) GetFleet(w http.ResponseWriter, r *http.Request) {
	resp := FleetResponse{Status: s.Fleet.Status()}
	if s.Sample != nil {
		resp.Usage = s.Sample(r.Context(), s.Fleet.Handles())
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetInfo returns build information.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "hoist",
		"version": hoist.Version,
		"run_id":  s.Fleet.Status().RunID,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown incomplete", "error", err)
			return srv.Close()
		}
		return nil
	}
}
