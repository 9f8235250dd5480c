// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package auth

import "errors"

// Repository-level sentinels. Postgres implementations translate driver
// errors into these so the workflows never inspect pgconn errors directly.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// Workflow-level sentinels. These are the expected, user-facing outcomes
// and are always reported precisely, never collapsed into a generic error.
var (
	// ErrUserExists is returned when a login or email is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no account matches the given login.
	ErrUserNotFound = errors.New("user not found")

	// ErrWeakPassword is returned when a candidate password scores below
	// the strength threshold.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrIncorrectPassword is returned when a password does not match the
	// stored digest.
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrSessionExpired is returned when a session is past its time-to-live.
	ErrSessionExpired = errors.New("session expired")
)
