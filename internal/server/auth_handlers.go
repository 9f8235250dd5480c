// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gradekeeper/gradekeeper/internal/auth"
	"github.com/gradekeeper/gradekeeper/pkg/errutil"
)

type registerRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type changePassRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	_, err := s.auth.Register(r.Context(), req.Login, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			s.countRegistration("duplicate")
			writeError(w, http.StatusBadRequest, "user already exists")
		case errors.Is(err, auth.ErrWeakPassword):
			s.countRegistration("weak_password")
			writeError(w, http.StatusBadRequest, "password is too weak")
		case isValidationError(err):
			s.countRegistration("invalid")
			writeError(w, http.StatusBadRequest, "invalid login or email")
		default:
			s.countRegistration("error")
			errutil.LogError(r.Context(), s.logger, "registration failed", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.countRegistration("success")
	writeMessage(w, http.StatusCreated, "registered")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	accountID, err := s.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		// Unknown user and wrong password answer identically so the
		// endpoint does not confirm which logins exist.
		switch {
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrIncorrectPassword):
			s.countLogin("rejected")
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			s.countLogin("error")
			errutil.LogError(r.Context(), s.logger, "login failed", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	session, err := s.auth.IssueSession(r.Context(), accountID)
	if err != nil {
		s.countLogin("error")
		errutil.LogError(r.Context(), s.logger, "session issuance failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID.String(),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(auth.SessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})

	s.countLogin("success")
	writeMessage(w, http.StatusOK, "logged in")
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePassRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	err := s.auth.ChangePassword(r.Context(), req.Login, req.Password, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, auth.ErrIncorrectPassword):
			writeError(w, http.StatusForbidden, "incorrect password")
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, "password is too weak")
		default:
			errutil.LogError(r.Context(), s.logger, "password change failed", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "password changed")
}

func (s *Server) handleGreet(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Hello %s", account.Login))
}

// isValidationError reports whether err is a pre-store input rejection.
func isValidationError(err error) bool {
	code := errutil.ErrorCode(err)
	return code == "AUTH_INVALID_LOGIN" || code == "AUTH_INVALID_EMAIL"
}

func (s *Server) countRegistration(result string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}
}

func (s *Server) countLogin(result string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(result).Inc()
	}
}
