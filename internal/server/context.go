// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package server

import (
	"context"

	"github.com/gradekeeper/gradekeeper/internal/auth"
)

type accountKey struct{}

// WithAccount returns a context carrying the authenticated account.
func WithAccount(ctx context.Context, account *auth.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFrom extracts the authenticated account from the context.
func AccountFrom(ctx context.Context) (*auth.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(*auth.Account)
	return account, ok
}
