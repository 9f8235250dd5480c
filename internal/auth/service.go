// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Service coordinates the credential and session workflows. It holds no
// state of its own; all durable state lives behind the repositories, which
// are the synchronization point for concurrent requests.
type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	hasher   PasswordHasher
	strength StrengthValidator
	logger   *slog.Logger
}

// NewService creates a Service using the default logger.
func NewService(accounts AccountRepository, sessions SessionRepository, hasher PasswordHasher, strength StrengthValidator) (*Service, error) {
	return NewServiceWithLogger(accounts, sessions, hasher, strength, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, sessions SessionRepository, hasher PasswordHasher, strength StrengthValidator, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("accounts repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if strength == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("strength validator is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		strength: strength,
		logger:   logger,
	}, nil
}

// Register creates a new account. Uniqueness is checked before strength so
// a duplicate-identity report never leaks anything about the password. The
// existence checks are only an early exit: the store's unique constraints
// are the final arbiter, and an insert-level violation (a concurrent
// registration that slipped past the checks) still surfaces ErrUserExists.
func (s *Service) Register(ctx context.Context, login, email, password string) (*Account, error) {
	if err := ValidateLogin(login); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	if _, err := s.accounts.FindByLogin(ctx, login); err == nil {
		return nil, oops.Code("AUTH_USER_EXISTS").
			With("login", login).
			Wrap(ErrUserExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "find account by login").
			Wrap(err)
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, oops.Code("AUTH_USER_EXISTS").
			With("email", email).
			Wrap(ErrUserExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "find account by email").
			Wrap(err)
	}

	if !s.strength.IsStrong(password, login, email) {
		return nil, oops.Code("AUTH_WEAK_PASSWORD").
			With("login", login).
			Wrap(ErrWeakPassword)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := s.accounts.Insert(ctx, login, email, hash)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race against a concurrent registration.
			return nil, oops.Code("AUTH_USER_EXISTS").
				With("login", login).
				Wrap(ErrUserExists)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert account").
			Wrap(err)
	}

	s.logger.Info("account registered", "login", login, "account_id", account.ID)
	return account, nil
}

// Login verifies submitted credentials and returns the account identifier.
// It performs no side effects beyond the lookup; session issuance is a
// separate, explicit step (IssueSession).
func (s *Service) Login(ctx context.Context, login, password string) (uuid.UUID, error) {
	account, err := s.accounts.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return uuid.Nil, oops.Code("AUTH_USER_NOT_FOUND").
				With("login", login).
				Wrap(ErrUserNotFound)
		}
		return uuid.Nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "find account by login").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return uuid.Nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}
	if !valid {
		return uuid.Nil, oops.Code("AUTH_INCORRECT_PASSWORD").
			With("login", login).
			Wrap(ErrIncorrectPassword)
	}

	return account.ID, nil
}

// ChangePassword re-authenticates with the old password before accepting a
// new one. Re-authentication is mandatory so a hijacked session can never
// be leveraged into a durable credential change.
func (s *Service) ChangePassword(ctx context.Context, login, oldPassword, newPassword string) error {
	account, err := s.accounts.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_USER_NOT_FOUND").
				With("login", login).
				Wrap(ErrUserNotFound)
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "find account by login").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(oldPassword, account.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify old password").
			Wrap(err)
	}
	if !valid {
		return oops.Code("AUTH_INCORRECT_PASSWORD").
			With("login", login).
			Wrap(ErrIncorrectPassword)
	}

	if !s.strength.IsStrong(newPassword, account.Login, account.Email) {
		return oops.Code("AUTH_WEAK_PASSWORD").
			With("login", login).
			Wrap(ErrWeakPassword)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_HASH_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.accounts.UpdatePassword(ctx, login, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_USER_NOT_FOUND").
				With("login", login).
				Wrap(ErrUserNotFound)
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	s.logger.Info("password changed", "login", login)
	return nil
}

// IssueSession creates a session for the account. The store assigns the
// session identifier and the issuance timestamp. The account is assumed to
// exist; that is enforced upstream by Login.
func (s *Service) IssueSession(ctx context.Context, accountID uuid.UUID) (*Session, error) {
	session, err := s.sessions.Insert(ctx, accountID)
	if err != nil {
		return nil, oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	return session, nil
}

// ValidateSession checks a session against its time-to-live and returns
// the owning account while the session is fresh. An expired session is
// garbage-collected immediately rather than waiting for a background
// sweep; if that delete fails the session is still reported expired and
// its row is collected on a later call.
func (s *Service) ValidateSession(ctx context.Context, sessionID uuid.UUID) (*Account, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").
				With("session_id", sessionID.String()).
				Wrap(err)
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "find session").
			Wrap(err)
	}

	if session.IsExpiredAt(time.Now().UTC()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Warn("failed to delete expired session",
				"session_id", session.ID,
				"error", err)
		}
		return nil, oops.Code("SESSION_EXPIRED").
			With("session_id", sessionID.String()).
			With("issued_at", session.IssuedAt).
			Wrap(ErrSessionExpired)
	}

	account, err := s.accounts.FindByID(ctx, session.AccountID)
	if err != nil {
		// A session without its account is an internal consistency
		// failure; foreign-key discipline should make this unreachable.
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "find session account").
			With("account_id", session.AccountID.String()).
			Wrap(err)
	}

	return account, nil
}
