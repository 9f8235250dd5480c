// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

// Package server exposes the JSON-over-HTTP API for the credential,
// session, and administration services.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/gradekeeper/gradekeeper/internal/admin"
	"github.com/gradekeeper/gradekeeper/internal/auth"
	"github.com/gradekeeper/gradekeeper/internal/observability"
)

// Server routes API requests to the auth and admin services.
type Server struct {
	auth    *auth.Service
	admin   *admin.Service
	metrics *observability.Metrics
	logger  *slog.Logger

	httpServer *http.Server
}

// New creates a Server. metrics may be nil; counting is then skipped.
func New(authSvc *auth.Service, adminSvc *admin.Service, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if authSvc == nil {
		return nil, oops.Code("SERVER_INVALID").Errorf("auth service is required")
	}
	if adminSvc == nil {
		return nil, oops.Code("SERVER_INVALID").Errorf("admin service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:    authSvc,
		admin:   adminSvc,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Handler builds the full route tree with logging middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/change-pass", s.handleChangePassword)
	mux.Handle("GET /api/auth/greet", s.requireSession(http.HandlerFunc(s.handleGreet)))

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("POST /api/admin/school", s.handleCreateSchool)
	adminMux.HandleFunc("POST /api/admin/group", s.handleCreateGroup)
	adminMux.HandleFunc("POST /api/admin/subject", s.handleCreateSubject)
	adminMux.HandleFunc("POST /api/admin/student", s.handleCreateStudent)
	adminMux.HandleFunc("POST /api/admin/teacher", s.handleCreateTeacher)
	adminMux.HandleFunc("POST /api/admin/class", s.handleCreateClass)
	adminMux.HandleFunc("POST /api/admin/class-student", s.handleAddStudentToClass)
	adminMux.HandleFunc("POST /api/admin/task", s.handleCreateTask)
	adminMux.HandleFunc("POST /api/admin/grade", s.handleCreateGrade)
	adminMux.HandleFunc("POST /api/admin/grade/scale", s.handleCreateGradeFromScale)
	mux.Handle("/api/admin/", s.requireSession(adminMux))

	return requestLogger(s.logger, s.metrics)(mux)
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info("api server started", "addr", addr)

	select {
	case err := <-errCh:
		return oops.Code("SERVER_FAILED").With("addr", addr).Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SERVER_SHUTDOWN_FAILED").Wrap(err)
	}

	s.logger.Info("api server stopped")
	return nil
}
