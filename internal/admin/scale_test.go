// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale_ToGrade(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		maxScore float64
		want     float64
	}{
		{name: "mid range rounds down to threshold", score: 11.5, maxScore: 20, want: 3},
		{name: "exactly on threshold", score: 10, maxScore: 20, want: 3},
		{name: "just below threshold", score: 9.9, maxScore: 20, want: 2},
		{name: "bonus points above max cap at top grade", score: 50, maxScore: 20, want: 6},
		{name: "zero score earns lowest grade", score: 0, maxScore: 20, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale := Scale{
				Score:      tt.score,
				MaxScore:   tt.maxScore,
				Weight:     3,
				Thresholds: DefaultThresholds,
			}
			grade := scale.ToGrade()
			assert.Equal(t, tt.want, grade.Raw())
			assert.Equal(t, 3.0, grade.Weight, "weight carries over from the scale")
		})
	}
}

func TestScale_Weighted(t *testing.T) {
	scale := Scale{Score: 10, MaxScore: 20, Weight: 2, Thresholds: DefaultThresholds}
	assert.InDelta(t, 0.5, scale.Raw(), 1e-9)
	assert.InDelta(t, 1.0, scale.Weighted(), 1e-9)
}

func TestScaleGrade_Weighted(t *testing.T) {
	grade := ScaleGrade{Value: 5, Weight: 2}
	assert.Equal(t, 5.0, grade.Raw())
	assert.Equal(t, 10.0, grade.Weighted())
}

func TestScale_ToGrade_EmptyThresholds(t *testing.T) {
	scale := Scale{Score: 15, MaxScore: 20, Weight: 1}
	assert.Equal(t, 0.0, scale.ToGrade().Raw())
}
