// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"provider-ranking-workers/internal/common/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthServer struct {
	srv    *http.Server
	checks map[string]pinger
	logger logger.Logger
}

func newHealthServer(addr string, infra *infrastructure, log logger.Logger) *healthServer {
	h := &healthServer{
		checks: map[string]pinger{
			"postgres":      infra.pg,
			"redis":         infra.redis,
			"elasticsearch": infra.es,
		},
		logger: log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/ready", h.ready)
	mux.Handle("/metrics", promhttp.Handler())

	h.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return h
}

func (h *healthServer) run() {
	h.logger.Info("health/metrics server listening", map[string]interface{}{"address": h.srv.Addr})
	if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *healthServer) shutdown(ctx context.Context) {
	if err := h.srv.Shutdown(ctx); err != nil {
		h.logger.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *healthServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ready reports 503 when any backing store fails its ping.
func (h *healthServer) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, map[string]interface{}{
		"status":       state,
		"dependencies": deps,
		"time":         time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
