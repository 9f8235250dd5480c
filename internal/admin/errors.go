// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package admin

import "errors"

// Sentinel errors surfaced by Repository implementations. Callers match
// with errors.Is; the oops wrappers carry the constraint detail.
var (
	// ErrDuplicate indicates the row already exists (unique or primary
	// key violation).
	ErrDuplicate = errors.New("entity already exists")

	// ErrDanglingReference indicates a referenced entity does not exist
	// (foreign key violation).
	ErrDanglingReference = errors.New("referenced entity does not exist")
)
