package correlation

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrConflictingFilter is returned when both top-k and a value range are set.
	ErrConflictingFilter = errors.New("value range and k cannot be present in both")
	// ErrInvalidFilter is returned for a negative k or an inverted range.
	ErrInvalidFilter = errors.New("invalid filter")
)

// ValueRange selects signed coefficients within [Lo, Hi].
type ValueRange struct {
	Lo float64
	Hi float64
}

// FilterSpec selects at most one policy. K == 0 and Range == nil keeps every pair.
type FilterSpec struct {
	// K keeps pairs whose |value| reaches the K-th largest |value|.
	K     int
	Range *ValueRange
}

// Validate checks the caller contract before any work is scheduled.
func (s FilterSpec) Validate() error {
	if s.K != 0 && s.Range != nil {
		return ErrConflictingFilter
	}
	if s.K < 0 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidFilter, s.K)
	}
	if s.Range != nil {
		if math.IsNaN(s.Range.Lo) || math.IsNaN(s.Range.Hi) || s.Range.Lo > s.Range.Hi {
			return fmt.Errorf("%w: range [%v, %v]", ErrInvalidFilter, s.Range.Lo, s.Range.Hi)
		}
	}
	return nil
}

// Filter returns a new slice with the pairs selected by spec. Top-k keeps
// every pair tied at the threshold, so the result may hold more than K pairs.
// NaN values are never selected.
func Filter(pairs []PairResult, spec FilterSpec) ([]PairResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch {
	case spec.K > 0:
		thresh, ok := topKThreshold(pairs, spec.K)
		if !ok {
			return []PairResult{}, nil
		}
		return selectPairs(pairs, func(v float64) bool { return math.Abs(v) >= thresh }), nil
	case spec.Range != nil:
		lo, hi := spec.Range.Lo, spec.Range.Hi
		return selectPairs(pairs, func(v float64) bool { return lo <= v && v <= hi }), nil
	default:
		return selectPairs(pairs, func(float64) bool { return true }), nil
	}
}

// topKThreshold is the k-th largest |value| among non-NaN pairs, or the
// smallest one when fewer than k are ranked.
func topKThreshold(pairs []PairResult, k int) (float64, bool) {
	abs := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		if !math.IsNaN(p.Value) {
			abs = append(abs, math.Abs(p.Value))
		}
	}
	if len(abs) == 0 {
		return 0, false
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(abs)))
	if k > len(abs) {
		k = len(abs)
	}
	return abs[k-1], true
}

func selectPairs(pairs []PairResult, keep func(float64) bool) []PairResult {
	out := make([]PairResult, 0, len(pairs))
	for _, p := range pairs {
		if keep(p.Value) {
			out = append(out, p)
		}
	}
	return out
}
