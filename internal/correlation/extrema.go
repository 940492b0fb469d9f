package correlation

import (
	"math"
	"sort"
)

// leastSentinel exceeds any valid |coefficient| so the diagonal never wins a
// minimum search.
const leastSentinel = 2.0

// Extreme is a rounded extremal value and every canonical pair achieving it.
type Extreme struct {
	Value float64 `json:"value" yaml:"value"`
	Pairs []Pair  `json:"pairs" yaml:"pairs"`
}

// MostReport holds the strongest positive and negative correlations. The
// negative value is reported as a magnitude.
type MostReport struct {
	Positive Extreme `json:"positive" yaml:"positive"`
	Negative Extreme `json:"negative" yaml:"negative"`
	Mean     float64 `json:"mean" yaml:"mean"`
}

// MostCorrelated scans a zero-diagonal copy of m. Ties are detected on exact
// values; only the reported numbers are rounded. NaN entries are ignored and
// the mean covers finite off-diagonal entries. With no off-diagonal entries
// every value is 0 and both tie sets are empty.
func MostCorrelated(m *Matrix) MostReport {
	work := m.Clone()
	n := work.N()
	for i := 0; i < n; i++ {
		work.set(i, i, 0)
	}

	pMax, nMax := math.Inf(-1), math.Inf(-1)
	var sum float64
	var cnt int
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := work.At(r, c)
			if math.IsNaN(v) {
				continue
			}
			pMax = math.Max(pMax, v)
			nMax = math.Max(nMax, -v)
			if r != c {
				sum += v
				cnt++
			}
		}
	}
	var rep MostReport
	if n == 0 {
		return rep
	}
	if pMax != 0 {
		rep.Positive = Extreme{Value: round3(pMax), Pairs: tiePairs(work, func(v float64) bool { return v == pMax })}
	}
	if nMax != 0 {
		rep.Negative = Extreme{Value: round3(nMax), Pairs: tiePairs(work, func(v float64) bool { return v == -nMax })}
	}
	if cnt > 0 {
		rep.Mean = round3(sum / float64(cnt))
	}
	return rep
}

// LeastCorrelated finds the smallest |value| off the diagonal of m. The
// diagonal of a private copy is set to a sentinel first. With no finite
// off-diagonal entry the result is zero with no pairs.
func LeastCorrelated(m *Matrix) Extreme {
	work := m.Clone()
	n := work.N()
	for i := 0; i < n; i++ {
		work.set(i, i, leastSentinel)
	}

	minAbs := math.Inf(1)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if v := work.At(r, c); !math.IsNaN(v) {
				minAbs = math.Min(minAbs, math.Abs(v))
			}
		}
	}
	pairs := tiePairs(work, func(v float64) bool { return math.Abs(v) == minAbs })
	if len(pairs) == 0 {
		return Extreme{}
	}
	return Extreme{Value: round3(minAbs), Pairs: pairs}
}

// tiePairs collects off-diagonal cells matching hit, canonicalized to i < j,
// deduplicated and sorted.
func tiePairs(m *Matrix, hit func(float64) bool) []Pair {
	seen := map[Pair]struct{}{}
	var out []Pair
	n := m.N()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if r == c || !hit(m.At(r, c)) {
				continue
			}
			p := canonicalPair(r, c)
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
