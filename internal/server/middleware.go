// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package server

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/gradekeeper/gradekeeper/internal/auth"
	"github.com/gradekeeper/gradekeeper/internal/logging"
	"github.com/gradekeeper/gradekeeper/internal/observability"
)

// sessionCookieName matches the cookie set by the login handler.
const sessionCookieName = "session_id"

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs each request with method, path, status, and
// duration, tags the request context with a ULID correlation ID, and
// counts the request in the metrics when present.
func requestLogger(logger *slog.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := ulid.MustNew(ulid.Timestamp(start), rand.Reader).String()
			ctx := logging.WithRequestID(r.Context(), requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			if metrics != nil {
				metrics.HTTPRequestsTotal.
					WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).
					Inc()
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote", r.RemoteAddr),
			}

			switch {
			case rec.status >= 500:
				logger.LogAttrs(ctx, slog.LevelError, "request", attrs...)
			case rec.status >= 400:
				logger.LogAttrs(ctx, slog.LevelWarn, "request", attrs...)
			default:
				logger.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)
			}
		})
	}
}

// requireSession validates the session cookie and injects the owning
// account into the request context. Missing, malformed, expired, and
// unknown sessions all answer 401 without distinguishing which.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			s.countValidation("missing")
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		sessionID, err := uuid.Parse(cookie.Value)
		if err != nil {
			s.countValidation("malformed")
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		account, err := s.auth.ValidateSession(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, auth.ErrSessionExpired) {
				s.countValidation("expired")
			} else {
				s.countValidation("invalid")
			}
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		s.countValidation("valid")
		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
	})
}

func (s *Server) countValidation(result string) {
	if s.metrics != nil {
		s.metrics.SessionValidationsTotal.WithLabelValues(result).Inc()
	}
}
