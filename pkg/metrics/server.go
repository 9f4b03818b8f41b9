package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/smartwish/print-agent/pkg/logging"
	"github.com/smartwish/print-agent/pkg/resources"
)

// ReadyCheck probes a dependency and reports whether the agent can take jobs.
type ReadyCheck func() (name, detail string, ok bool)

// Server serves /metrics plus liveness and readiness probes.
type Server struct {
	httpServer *http.Server
	log        *logging.Logger
	checks     []ReadyCheck
}

// NewServer builds the metrics server on the given port.
func NewServer(port int, exporter *Exporter, log *logging.Logger, checks ...ReadyCheck) *Server {
	s := &Server{log: log, checks: checks}

	router := mux.NewRouter()
	router.Handle("/metrics", exporter.Handler()).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}).Methods("GET")

	router.HandleFunc("/ready", s.handleReady).Methods("GET")

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := true
	results := make(map[string]string)
	for _, check := range s.checks {
		name, detail, ok := check()
		results[name] = detail
		if !ok {
			ready = false
		}
	}

	w.Header().Set("Content-Type", "application/json")
	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"checks":    results,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Start serves in the background until Stop is called.
func (s *Server) Start() {
	go func() {
		s.log.Info("Metrics endpoint listening", map[string]interface{}{
			"addr": s.httpServer.Addr,
		})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("Metrics server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// DiskCheck builds a readiness check on free space in the work directory.
func DiskCheck(path string, limitPercent float64) ReadyCheck {
	return func() (string, string, bool) {
		info, err := resources.DiskSpace(path)
		if err != nil {
			return "disk_space", fmt.Sprintf("error: %v", err), false
		}
		if info.Full(limitPercent) {
			return "disk_space", fmt.Sprintf("full: %.1f%% used", info.UsedPercent), false
		}
		return "disk_space", fmt.Sprintf("ok: %.1f%% used, %d MB available", info.UsedPercent, info.AvailableMB), true
	}
}
