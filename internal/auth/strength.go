// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package auth

import (
	"strings"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// MinPasswordScore is the minimum acceptable zxcvbn score class (0-4 scale).
const MinPasswordScore = 3

// StrengthValidator scores candidate passwords. This is advisory
// heuristics, not cryptography: implementations never fail hard, and an
// estimator error is reported as "not strong".
type StrengthValidator interface {
	// IsStrong reports whether the candidate password is acceptable.
	// contextTokens carry account-specific strings (login, email) so
	// trivially derived passwords are rejected.
	IsStrong(candidate string, contextTokens ...string) bool
}

// ZxcvbnValidator implements StrengthValidator using a dictionary and
// pattern aware guessability estimator.
type ZxcvbnValidator struct {
	minScore int
}

// NewZxcvbnValidator creates a validator with the default score threshold.
func NewZxcvbnValidator() *ZxcvbnValidator {
	return &ZxcvbnValidator{minScore: MinPasswordScore}
}

// IsStrong reports whether the candidate scores at or above the threshold.
func (v *ZxcvbnValidator) IsStrong(candidate string, contextTokens ...string) (strong bool) {
	if candidate == "" {
		return false
	}

	// The estimator must never take the whole workflow down; a panic in
	// scoring degrades to "not strong".
	defer func() {
		if recover() != nil {
			strong = false
		}
	}()

	inputs := make([]string, 0, len(contextTokens)*2)
	for _, token := range contextTokens {
		if token == "" {
			continue
		}
		inputs = append(inputs, token)
		// Local parts of emails are common password seeds on their own.
		if local, _, found := strings.Cut(token, "@"); found && local != "" {
			inputs = append(inputs, local)
		}
	}

	result := zxcvbn.PasswordStrength(candidate, inputs)
	return result.Score >= v.minScore
}
