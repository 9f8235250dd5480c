// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Login validation constraints.
const (
	MinLoginLength = 3
	MaxLoginLength = 64
)

// loginRegex matches logins that:
// - Start with a letter (a-z, A-Z)
// - Contain only letters, numbers, and underscores
var loginRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// emailRegex is a light shape check; the mailbox is never verified here.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Account represents one registered identity. The identifier and creation
// timestamp are assigned by the store; PasswordHash is always the output
// of a PasswordHasher, never raw input.
type Account struct {
	ID           uuid.UUID
	Login        string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ValidateLogin validates a login against rules.
// Login requirements:
// - Length: MinLoginLength to MaxLoginLength characters
// - Must start with a letter
// - Can contain only letters (a-z, A-Z), numbers (0-9), and underscores (_)
func ValidateLogin(login string) error {
	if login == "" {
		return oops.Code("AUTH_INVALID_LOGIN").Errorf("login cannot be empty")
	}
	if len(login) < MinLoginLength {
		return oops.Code("AUTH_INVALID_LOGIN").
			With("min", MinLoginLength).
			Errorf("login must be at least %d characters", MinLoginLength)
	}
	if len(login) > MaxLoginLength {
		return oops.Code("AUTH_INVALID_LOGIN").
			With("max", MaxLoginLength).
			Errorf("login must be at most %d characters", MaxLoginLength)
	}
	if !loginRegex.MatchString(login) {
		return oops.Code("AUTH_INVALID_LOGIN").
			Errorf("login must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail validates the shape of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email address is malformed")
	}
	return nil
}

// AccountRepository manages account persistence. Uniqueness of login and
// email is enforced by the store's unique constraints; the Insert
// implementation translates a unique violation into ErrDuplicate.
type AccountRepository interface {
	// FindByLogin retrieves an account by login.
	// Returns ErrNotFound if no account has the given login.
	FindByLogin(ctx context.Context, login string) (*Account, error)

	// FindByEmail retrieves an account by email.
	// Returns ErrNotFound if no account has the given email.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID retrieves an account by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Insert stores a new account and returns it with the store-assigned
	// identifier. Returns ErrDuplicate when login or email is taken.
	Insert(ctx context.Context, login, email, passwordHash string) (*Account, error)

	// UpdatePassword replaces the password hash for the given login.
	// Returns ErrNotFound if no account has the given login.
	UpdatePassword(ctx context.Context, login, passwordHash string) error
}
