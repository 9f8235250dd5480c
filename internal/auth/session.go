// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the fixed validity window of a session, measured from
// issuance. There is no sliding renewal: every validation re-measures
// from the original IssuedAt, so a session's total usable lifetime is
// bounded regardless of activity.
const SessionTTL = 10 * time.Minute

// Session represents one authenticated, time-bounded access grant. The
// identifier doubles as the bearer token value; it and IssuedAt are
// assigned by the store at creation and never updated in place.
type Session struct {
	ID        uuid.UUID
	IssuedAt  time.Time
	AccountID uuid.UUID
}

// ExpiresAt returns the instant the session stops being valid.
func (s *Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(SessionTTL)
}

// IsExpiredAt reports whether the session would be expired at the given
// time. Validity is strict: a session is usable only while the elapsed
// time since issuance is less than SessionTTL.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.Sub(s.IssuedAt) >= SessionTTL
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Insert stores a new session for the account and returns it with the
	// store-assigned identifier and issuance timestamp.
	Insert(ctx context.Context, accountID uuid.UUID) (*Session, error)

	// Find retrieves a session by its identifier.
	// Returns ErrNotFound if no such session exists.
	Find(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session by its identifier.
	// Returns ErrNotFound if no such session exists.
	Delete(ctx context.Context, id uuid.UUID) error
}
