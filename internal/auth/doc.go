// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

// Package auth provides credential and session management for Gradekeeper.
//
// # Domain Types
//
// Account and Session are plain value types. Accounts are created through
// the registration workflow and Sessions through the session issuer; both
// receive their identifiers and timestamps from the store, never from the
// caller. Repository implementations return fully populated values.
//
// # Services
//
// Service coordinates the credential workflows:
//   - Register - uniqueness checks, strength validation, hashing, persistence
//   - Login - credential verification without side effects
//   - ChangePassword - re-authentication followed by re-hash
//   - IssueSession / ValidateSession - time-bounded session grants
//
// All expected outcomes (duplicate identity, unknown user, weak password,
// wrong password, expired session) are reported as sentinel errors wrapped
// with oops codes; anything else is an infrastructure failure.
package auth
