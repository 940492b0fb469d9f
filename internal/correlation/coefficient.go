package correlation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CoefficientFunc computes one pairwise coefficient. NaN inputs mark missing
// observations; undefined results are NaN, never an error.
type CoefficientFunc func(x, y []float64) (float64, error)

// DefaultCoefficients maps each method to its coefficient primitive.
func DefaultCoefficients() map[Method]CoefficientFunc {
	return map[Method]CoefficientFunc{
		Pearson:    PearsonCoefficient,
		Spearman:   SpearmanCoefficient,
		KendallTau: KendallTauCoefficient,
	}
}

// completeCases keeps rows where both x and y are present.
func completeCases(x, y []float64) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("length mismatch: %d vs %d", len(x), len(y))
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys, nil
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

func clampUnit(r float64) float64 {
	switch {
	case math.IsNaN(r):
		return r
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

// PearsonCoefficient is the product-moment correlation over complete cases.
func PearsonCoefficient(x, y []float64) (float64, error) {
	xs, ys, err := completeCases(x, y)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN(), nil
	}
	return clampUnit(stat.Correlation(xs, ys, nil)), nil
}

// SpearmanCoefficient is Pearson over average ranks of the complete cases.
func SpearmanCoefficient(x, y []float64) (float64, error) {
	xs, ys, err := completeCases(x, y)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN(), nil
	}
	return clampUnit(stat.Correlation(ranks(xs), ranks(ys), nil)), nil
}

// KendallTauCoefficient is Kendall's tau-b over complete cases, computed with
// Knight's O(n log n) merge-sort method.
func KendallTauCoefficient(x, y []float64) (float64, error) {
	xs, ys, err := completeCases(x, y)
	if err != nil {
		return math.NaN(), err
	}
	n := len(xs)
	if n < 2 {
		return math.NaN(), nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if xs[idx[a]] != xs[idx[b]] {
			return xs[idx[a]] < xs[idx[b]]
		}
		return ys[idx[a]] < ys[idx[b]]
	})
	tiesX := tiedPairs(n, func(a, b int) bool { return xs[idx[a]] == xs[idx[b]] })
	tiesXY := tiedPairs(n, func(a, b int) bool {
		return xs[idx[a]] == xs[idx[b]] && ys[idx[a]] == ys[idx[b]]
	})

	yv := make([]float64, n)
	for k, i := range idx {
		yv[k] = ys[i]
	}
	// Pairs tied on x are already ordered by y, so every inversion left in yv
	// is a discordant pair.
	discordant := mergeInversions(yv)
	tiesY := tiedPairs(n, func(a, b int) bool { return yv[a] == yv[b] })

	total := int64(n) * int64(n-1) / 2
	denom := math.Sqrt(float64(total-tiesX) * float64(total-tiesY))
	if denom == 0 {
		return math.NaN(), nil
	}
	num := total - tiesX - tiesY + tiesXY - 2*discordant
	return clampUnit(float64(num) / denom), nil
}

// tiedPairs sums t(t-1)/2 over runs of adjacent equal elements.
func tiedPairs(n int, same func(a, b int) bool) int64 {
	var total int64
	run := int64(1)
	for k := 1; k < n; k++ {
		if same(k-1, k) {
			run++
			continue
		}
		total += run * (run - 1) / 2
		run = 1
	}
	return total + run*(run-1)/2
}

// mergeInversions sorts v ascending in place and returns the number of pairs
// i < j with v[i] > v[j]. Equal values are not inversions.
func mergeInversions(v []float64) int64 {
	n := len(v)
	buf := make([]float64, n)
	var inv int64
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo+width < n; lo += 2 * width {
			mid, hi := lo+width, min(lo+2*width, n)
			i, j, k := lo, mid, lo
			for i < mid && j < hi {
				if v[j] < v[i] {
					buf[k] = v[j]
					inv += int64(mid - i)
					j++
				} else {
					buf[k] = v[i]
					i++
				}
				k++
			}
			k += copy(buf[k:], v[i:mid])
			copy(buf[k:], v[j:hi])
			copy(v[lo:hi], buf[lo:hi])
		}
	}
	return inv
}

// ranks assigns 1-based fractional ranks; ties share their average rank.
func ranks(v []float64) []float64 {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return v[idx[a]] < v[idx[b]] })
	out := make([]float64, len(v))
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && v[idx[end]] == v[idx[start]] {
			end++
		}
		avg := float64(start+end+1) / 2
		for k := start; k < end; k++ {
			out[idx[k]] = avg
		}
		start = end
	}
	return out
}
