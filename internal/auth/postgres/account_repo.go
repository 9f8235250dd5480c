// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

// Package postgres provides PostgreSQL-backed repositories for the auth
// domain.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/gradekeeper/gradekeeper/internal/auth"
)

// DB is the subset of pgxpool.Pool used by the repositories. pgxmock
// satisfies it for unit tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByLogin retrieves an account by login.
func (r *AccountRepository) FindByLogin(ctx context.Context, login string) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id::text, login, email, password_hash, created_at
		FROM users
		WHERE login = $1
	`, login)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("login", login).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_FIND_BY_LOGIN_FAILED").
			With("operation", "find account by login").
			With("login", login).
			Wrap(err)
	}
	return account, nil
}

// FindByEmail retrieves an account by email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id::text, login, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_FIND_BY_EMAIL_FAILED").
			With("operation", "find account by email").
			With("email", email).
			Wrap(err)
	}
	return account, nil
}

// FindByID retrieves an account by its identifier.
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id::text, login, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id.String())

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_FIND_BY_ID_FAILED").
			With("operation", "find account by id").
			With("id", id.String()).
			Wrap(err)
	}
	return account, nil
}

// Insert stores a new account. The database assigns the identifier and
// creation timestamp; its unique constraints on login and email are the
// final arbiter of uniqueness, so a violation is translated into
// auth.ErrDuplicate rather than a generic failure.
func (r *AccountRepository) Insert(ctx context.Context, login, email, passwordHash string) (*auth.Account, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (login, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id::text, login, email, password_hash, created_at
	`, login, email, passwordHash)

	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, oops.Code("ACCOUNT_DUPLICATE").
				With("login", login).
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrDuplicate)
		}
		return nil, oops.Code("ACCOUNT_INSERT_FAILED").
			With("operation", "insert account").
			With("login", login).
			Wrap(err)
	}
	return account, nil
}

// UpdatePassword replaces the password hash for the given login.
func (r *AccountRepository) UpdatePassword(ctx context.Context, login, passwordHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2
		WHERE login = $1
	`, login, passwordHash)
	if err != nil {
		return oops.Code("ACCOUNT_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("login", login).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("login", login).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		idStr        string
		login        string
		email        string
		passwordHash string
		createdAt    time.Time
	)

	err := row.Scan(&idStr, &login, &email, &passwordHash, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows and driver errors unchanged for callers
		// to classify with context-specific info.
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_INVALID_ID").
			With("operation", "parse account id").
			With("id", idStr).
			Wrap(err)
	}

	return &auth.Account{
		ID:           id,
		Login:        login,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface check.
var _ auth.AccountRepository = (*AccountRepository)(nil)
