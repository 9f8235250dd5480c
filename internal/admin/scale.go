// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package admin

// Threshold maps a minimum score fraction to the grade it earns.
type Threshold struct {
	MinFraction float64
	Grade       float64
}

// DefaultThresholds is the standard six-point grading scale. A fraction
// below 0.4 still earns the lowest grade, and a fraction at or above
// 0.98 earns the highest.
var DefaultThresholds = []Threshold{
	{MinFraction: 0, Grade: 1},
	{MinFraction: 0.4, Grade: 2},
	{MinFraction: 0.5, Grade: 3},
	{MinFraction: 0.75, Grade: 4},
	{MinFraction: 0.9, Grade: 5},
	{MinFraction: 0.98, Grade: 6},
}

// Scale is a raw assessment score awaiting conversion to a grade.
type Scale struct {
	Score      float64
	MaxScore   float64
	Weight     float64
	Thresholds []Threshold
}

// ScaleGrade is a grade derived from a Scale, or entered directly.
type ScaleGrade struct {
	Value  float64
	Weight float64
}

// Raw returns the score as a fraction of the maximum. Scores above the
// maximum yield fractions above 1, which still convert (to the top
// grade) rather than error.
func (s Scale) Raw() float64 {
	return s.Score / s.MaxScore
}

// Weighted returns the fraction multiplied by the scale's weight.
func (s Scale) Weighted() float64 {
	return s.Raw() * s.Weight
}

// ToGrade converts the scale to a grade by picking the highest threshold
// grade whose minimum fraction the score reaches. The weight carries
// over unchanged.
func (s Scale) ToGrade() ScaleGrade {
	frac := s.Raw()
	var maximum float64
	for _, t := range s.Thresholds {
		if frac >= t.MinFraction && t.Grade > maximum {
			maximum = t.Grade
		}
	}
	return ScaleGrade{Value: maximum, Weight: s.Weight}
}

// Raw returns the grade value.
func (g ScaleGrade) Raw() float64 {
	return g.Value
}

// Weighted returns the grade value multiplied by its weight.
func (g ScaleGrade) Weighted() float64 {
	return g.Value * g.Weight
}
