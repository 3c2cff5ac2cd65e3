// Package gradecalc computes semester averages and academic standing from
// the three raw scores of a subject: NP1, NP2 (periodic assessments) and
// PIM (the shared project grade).
package gradecalc

import (
	"fmt"
	"math"
)

// Grading constants for the ADS curriculum.
const (
	WeightNP1 = 0.4
	WeightNP2 = 0.4
	WeightPIM = 0.2

	PassingAverage = 7.0 // at or above: approved outright
	ExamAverage    = 4.0 // at or above (below passing): final exam required

	ScoreMin = 0.0
	ScoreMax = 10.0
)

// Status is the standing derived from a semester average. It is never
// stored; callers recompute it from the raw scores on every read.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusFinalExam Status = "final_exam_required"
	StatusFailed    Status = "failed"
	StatusInvalid   Status = "invalid"
)

// RangeError reports the first score found outside [0, 10]. Fields are
// checked in NP1, NP2, PIM order so messages are reproducible.
type RangeError struct {
	Field string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s score %.2f outside range [%.1f, %.1f]", e.Field, e.Value, ScoreMin, ScoreMax)
}

// Validate checks each score against the closed interval [0, 10].
func Validate(np1, np2, pim float64) error {
	checks := []struct {
		field string
		value float64
	}{
		{"NP1", np1},
		{"NP2", np2},
		{"PIM", pim},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value < ScoreMin || c.value > ScoreMax {
			return &RangeError{Field: c.field, Value: c.value}
		}
	}
	return nil
}

// ComputeAverage returns the weighted semester average and its standing.
// Input is validated first; out-of-range scores yield StatusInvalid and a
// *RangeError rather than a clamped or NaN average.
//
// The average is rounded to 2 decimals, half away from zero (math.Round).
func ComputeAverage(np1, np2, pim float64) (float64, Status, error) {
	if err := Validate(np1, np2, pim); err != nil {
		return 0, StatusInvalid, err
	}
	avg := round2(np1*WeightNP1 + np2*WeightNP2 + pim*WeightPIM)
	switch {
	case avg >= PassingAverage:
		return avg, StatusApproved, nil
	case avg >= ExamAverage:
		return avg, StatusFinalExam, nil
	default:
		return avg, StatusFailed, nil
	}
}

// RequiredExamScore returns the minimum final-exam score that lifts the
// combined result (average+exam)/2 to 5.0, i.e. 10 - avg clamped to [0, 10].
// Callers probe it speculatively, so an absent or garbage average degrades
// to 0.0 instead of failing.
func RequiredExamScore(avg float64) float64 {
	if math.IsNaN(avg) || avg < ScoreMin || avg > ScoreMax {
		return 0.0
	}
	need := ScoreMax - avg
	if need < ScoreMin {
		need = ScoreMin
	}
	if need > ScoreMax {
		need = ScoreMax
	}
	return round2(need)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
