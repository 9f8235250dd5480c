// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/gradekeeper/gradekeeper/internal/auth"
)

// SessionRepository implements auth.SessionRepository using PostgreSQL.
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert stores a new session. The database assigns both the session
// identifier and the issuance timestamp; the caller supplies only the
// owning account.
func (r *SessionRepository) Insert(ctx context.Context, accountID uuid.UUID) (*auth.Session, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO sessions (user_id)
		VALUES ($1)
		RETURNING id::text, issued_at, user_id::text
	`, accountID.String())

	session, err := scanSession(row)
	if err != nil {
		return nil, oops.Code("SESSION_INSERT_FAILED").
			With("operation", "insert session").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	return session, nil
}

// Find retrieves a session by its identifier.
func (r *SessionRepository) Find(ctx context.Context, id uuid.UUID) (*auth.Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id::text, issued_at, user_id::text
		FROM sessions
		WHERE id = $1
	`, id.String())

	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_FIND_FAILED").
			With("operation", "find session").
			With("id", id.String()).
			Wrap(err)
	}
	return session, nil
}

// Delete removes a session by its identifier.
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM sessions WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete session").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SESSION_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanSession scans a single row into a Session.
// Callers are responsible for handling pgx.ErrNoRows.
func scanSession(row pgx.Row) (*auth.Session, error) {
	var (
		idStr        string
		issuedAt     time.Time
		accountIDStr string
	)

	if err := row.Scan(&idStr, &issuedAt, &accountIDStr); err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_ID").
			With("operation", "parse session id").
			With("id", idStr).
			Wrap(err)
	}

	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_ACCOUNT_ID").
			With("operation", "parse session account id").
			With("account_id", accountIDStr).
			Wrap(err)
	}

	return &auth.Session{
		ID:        id,
		IssuedAt:  issuedAt,
		AccountID: accountID,
	}, nil
}

// Compile-time interface check.
var _ auth.SessionRepository = (*SessionRepository)(nil)
