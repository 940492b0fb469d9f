package correlation

// Pair is an unordered column pair stored canonically with I < J.
type Pair struct {
	I int `json:"i" yaml:"i"`
	J int `json:"j" yaml:"j"`
}

// canonicalPair orders two indices so the smaller comes first.
func canonicalPair(r, c int) Pair {
	if r > c {
		r, c = c, r
	}
	return Pair{I: r, J: c}
}

// Pairs enumerates every (i, j) with i < j < n, outer loop on i. The order is
// the positional key shared by every per-method pair list.
func Pairs(n int) []Pair {
	if n < 2 {
		return nil
	}
	out := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Pair{I: i, J: j})
		}
	}
	return out
}

// PairResult is one off-diagonal coefficient. Value may be NaN.
type PairResult struct {
	I     int
	J     int
	Value float64
}
