/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes the upgrade job's HTTP surface: liveness and
// readiness probes, prometheus metrics, and the current upgrade status.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/openebs/mayastor-upgrade/pkg/upgrade"
)

// Server serves probes, metrics and upgrade status while an upgrade runs.
type Server struct {
	config *Config

	mu    sync.RWMutex
	ready bool
	plan  *upgrade.Plan
	phase string

	httpServer *http.Server
}

// New creates a Server with the given config. Nil config uses defaults.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		config: config,
		phase:  PhasePending,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	slog.Info("status server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// SetReady flips the readiness probe.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// SetPlan publishes the plan being applied so /v1/status can report it.
func (s *Server) SetPlan(plan *upgrade.Plan) {
	s.mu.Lock()
	s.plan = plan
	s.mu.Unlock()
}

// SetPhase records the upgrade phase reported by /v1/status.
func (s *Server) SetPhase(phase string) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}
