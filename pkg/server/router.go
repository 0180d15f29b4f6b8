package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openebs/mayastor-upgrade/pkg/serializer"
)

// Upgrade phases reported by /v1/status.
const (
	PhasePending   = "Pending"
	PhaseApplying  = "Applying"
	PhaseSucceeded = "Succeeded"
	PhaseFailed    = "Failed"
)

type contextKey string

const contextKeyRequestID contextKey = "requestID"

// setupRoutes configures all HTTP routes and middleware.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Probe endpoints (no middleware)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/status", s.withMiddleware(s.handleStatus))

	return mux
}

// withMiddleware tags each request with an ID and logs it on completion.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next(w, r)

		slog.Debug("handled request",
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(start).Round(time.Millisecond))
	}
}

// StatusResponse is the /v1/status payload.
type StatusResponse struct {
	Phase     string        `json:"phase" yaml:"phase"`
	Plan      *upgradePlan  `json:"plan,omitempty" yaml:"plan,omitempty"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed,
			"METHOD_NOT_ALLOWED", "only GET is supported", false, nil)
		return
	}

	s.mu.RLock()
	resp := StatusResponse{
		Phase:     s.phase,
		Timestamp: time.Now().UTC(),
	}
	if s.plan != nil {
		resp.Plan = &upgradePlan{
			ID:          s.plan.ID,
			FromVersion: s.plan.FromVersion,
			ToVersion:   s.plan.ToVersion,
		}
	}
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// upgradePlan is the trimmed plan view exposed over HTTP.
type upgradePlan struct {
	ID          string `json:"id" yaml:"id"`
	FromVersion string `json:"fromVersion" yaml:"fromVersion"`
	ToVersion   string `json:"toVersion" yaml:"toVersion"`
}
