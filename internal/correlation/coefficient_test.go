package correlation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPearsonCoefficient(t *testing.T) {
	r, err := PearsonCoefficient([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	r, err = PearsonCoefficient([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-12)

	r, err = PearsonCoefficient([]float64{1, 2, 3, 4}, []float64{2, 1, 4, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, r, 1e-12)
}

func TestCoefficientsPairwiseCompleteDeletion(t *testing.T) {
	nan := math.NaN()
	x := []float64{1, 2, nan, 3, 4, 100}
	y := []float64{2, 1, 50, 4, 3, nan}
	for name, fn := range map[string]CoefficientFunc{
		"pearson":  PearsonCoefficient,
		"spearman": SpearmanCoefficient,
	} {
		r, err := fn(x, y)
		require.NoError(t, err, name)
		assert.InDelta(t, 0.6, r, 1e-12, name)
	}

	// complete cases x=[1 2 3 4], y=[2 1 4 3]: 4 concordant, 2 discordant
	r, err := KendallTauCoefficient(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, r, 1e-12)
}

func TestCoefficientsUndefinedIsNaN(t *testing.T) {
	flat := []float64{0.1, 0.1, 0.1, 0.1}
	other := []float64{1, 2, 3, 4}
	for m, fn := range DefaultCoefficients() {
		r, err := fn(flat, other)
		require.NoError(t, err, m.String())
		assert.True(t, math.IsNaN(r), "%s zero variance should be NaN, got %v", m, r)

		r, err = fn([]float64{1, math.NaN()}, []float64{math.NaN(), 2})
		require.NoError(t, err, m.String())
		assert.True(t, math.IsNaN(r), "%s without complete pairs should be NaN", m)
	}
}

func TestCoefficientsLengthMismatch(t *testing.T) {
	for m, fn := range DefaultCoefficients() {
		_, err := fn([]float64{1, 2}, []float64{1})
		require.Error(t, err, m.String())
	}
}

func TestSpearmanCoefficientMonotonic(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 8, 27, 64, 125}
	r, err := SpearmanCoefficient(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)
}

func TestSpearmanCoefficientTies(t *testing.T) {
	r, err := SpearmanCoefficient([]float64{1, 2, 2, 3}, []float64{1, 2, 3, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.8333333333333334, r, 1e-12)
}

func TestKendallTauCoefficient(t *testing.T) {
	r, err := KendallTauCoefficient([]float64{1, 2, 3, 4, 5}, []float64{3, 4, 1, 2, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, r, 1e-12)

	// tau-b with ties on both sides
	r, err = KendallTauCoefficient([]float64{1, 2, 2, 3}, []float64{1, 2, 3, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, r, 1e-12)
}

// kendallTauPairwise is the direct O(n^2) tau-b used as a reference.
func kendallTauPairwise(x, y []float64) float64 {
	xs, ys, _ := completeCases(x, y)
	n := len(xs)
	var concordant, discordant, tiesX, tiesY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx, dy := xs[i]-xs[j], ys[i]-ys[j]
			if dx == 0 {
				tiesX++
			}
			if dy == 0 {
				tiesY++
			}
			switch p := dx * dy; {
			case p > 0:
				concordant++
			case p < 0:
				discordant++
			}
		}
	}
	total := float64(n) * float64(n-1) / 2
	denom := math.Sqrt((total - tiesX) * (total - tiesY))
	if denom == 0 {
		return math.NaN()
	}
	return (concordant - discordant) / denom
}

func TestKendallTauMatchesPairwiseCount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(60)
		levels := 1 + rng.Intn(8)
		x := make([]float64, n)
		y := make([]float64, n)
		for i := range x {
			x[i] = float64(rng.Intn(levels))
			y[i] = float64(rng.Intn(levels)) - 0.5*x[i]
			if rng.Intn(10) == 0 {
				x[i] = math.NaN()
			}
			if rng.Intn(10) == 0 {
				y[i] = math.NaN()
			}
		}
		want := kendallTauPairwise(x, y)
		got, err := KendallTauCoefficient(x, y)
		require.NoError(t, err)
		if math.IsNaN(want) {
			assert.True(t, math.IsNaN(got), "trial %d: want NaN, got %v", trial, got)
			continue
		}
		assert.InDelta(t, want, got, 1e-12, "trial %d (n=%d, levels=%d)", trial, n, levels)
	}
}

func TestKendallTauLargeInput(t *testing.T) {
	const n = 100000
	rng := rand.New(rand.NewSource(7))
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(rng.Intn(1000))
		y[i] = x[i] + float64(rng.Intn(500))
	}
	r, err := KendallTauCoefficient(x, y)
	require.NoError(t, err)
	assert.Greater(t, r, 0.5)
	assert.LessOrEqual(t, r, 1.0)
}

func TestMergeInversions(t *testing.T) {
	v := []float64{3, 1, 2, 2, 0}
	assert.EqualValues(t, 7, mergeInversions(v))
	assert.Equal(t, []float64{0, 1, 2, 2, 3}, v)
	assert.Zero(t, mergeInversions(nil))
}

func TestRanksAverageTies(t *testing.T) {
	assert.Equal(t, []float64{2, 3.5, 3.5, 1}, ranks([]float64{10, 20, 20, 5}))
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{"pearson": Pearson, " Spearman ": Spearman, "kendall": KendallTau, "KendallTau": KendallTau} {
		got, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMethod("cosine")
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestEnabledMethods(t *testing.T) {
	assert.Equal(t, AllMethods(), EnabledMethods(false, false, false, true))
	assert.Equal(t, []Method{Pearson, KendallTau}, EnabledMethods(true, false, true, false))
	assert.Empty(t, EnabledMethods(false, false, false, false))
}
