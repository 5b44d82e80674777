package padjust

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expectations struct {
	Method   Method
	Input    []float64
	Expected []float64
}

// Truth values calculated with R's p.adjust
func TestAdjust(t *testing.T) {
	p := []float64{0.01, 0.02, 0.03, 0.04, 0.05}
	by := 0.05 * (1 + 1.0/2 + 1.0/3 + 1.0/4 + 1.0/5)

	for _, v := range []expectations{
		{None, p, p},
		{Bonferroni, p, []float64{0.05, 0.1, 0.15, 0.2, 0.25}},
		{Holm, p, []float64{0.05, 0.08, 0.09, 0.09, 0.09}},
		{Hochberg, p, []float64{0.05, 0.05, 0.05, 0.05, 0.05}},
		{BH, p, []float64{0.05, 0.05, 0.05, 0.05, 0.05}},
		{BY, p, []float64{by, by, by, by, by}},

		// p.adjust(c(0.04, 0.001, 0.3, 0.01), method)
		{Holm, []float64{0.04, 0.001, 0.3, 0.01}, []float64{0.08, 0.004, 0.3, 0.03}},
		{Hochberg, []float64{0.04, 0.001, 0.3, 0.01}, []float64{0.08, 0.004, 0.3, 0.03}},
		{BH, []float64{0.04, 0.001, 0.3, 0.01}, []float64{0.16 / 3, 0.004, 0.3, 0.02}},
		{Bonferroni, []float64{0.04, 0.001, 0.3, 0.01}, []float64{0.16, 0.004, 1, 0.04}},

		// A single test is never adjusted
		{Holm, []float64{0.2}, []float64{0.2}},
		{BY, []float64{0.2}, []float64{0.2}},
	} {
		got, err := Adjust(v.Input, v.Method)
		require.NoError(t, err)
		require.Len(t, got, len(v.Input))
		for i := range got {
			if math.Abs(got[i]-v.Expected[i]) > 1e-12 {
				t.Fatalf("\nMethod: %s\nInput: %v\nGot: %v\nExpected: %v\n", v.Method, v.Input, got, v.Expected)
			}
		}
	}
}

func TestAdjustIsPermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(20081201))

	p := make([]float64, 500)
	for i := range p {
		p[i] = math.Pow(rng.Float64(), 3)
	}
	// Ties
	p[10], p[20], p[30] = p[5], p[5], p[5]

	for _, method := range Methods {
		original, err := Adjust(p, method)
		require.NoError(t, err)

		perm := rng.Perm(len(p))
		shuffled := make([]float64, len(p))
		for i, j := range perm {
			shuffled[i] = p[j]
		}

		adjusted, err := Adjust(shuffled, method)
		require.NoError(t, err)

		unshuffled := make([]float64, len(p))
		for i, j := range perm {
			unshuffled[j] = adjusted[i]
		}

		assert.Equal(t, original, unshuffled, string(method))
	}
}

func TestAdjustIsMonotoneAndBounded(t *testing.T) {
	p := []float64{0.9, 0.0001, 0.5, 0.02, 0.02, 0.7}
	for _, method := range Methods {
		q, err := Adjust(p, method)
		require.NoError(t, err)

		for i := range p {
			assert.GreaterOrEqual(t, q[i], p[i], string(method))
			assert.LessOrEqual(t, q[i], 1.0, string(method))
			for j := range p {
				if p[i] < p[j] {
					assert.LessOrEqual(t, q[i], q[j], string(method))
				}
			}
		}
	}
}

func TestAdjustErrors(t *testing.T) {
	_, err := Adjust(nil, Holm)
	assert.True(t, errors.Is(err, ErrNoPValues))

	_, err = Adjust([]float64{}, BH)
	assert.True(t, errors.Is(err, ErrNoPValues))

	_, err = Adjust([]float64{0.1, math.NaN()}, Holm)
	assert.Error(t, err)

	_, err = Adjust([]float64{0.1, 1.5}, Holm)
	assert.Error(t, err)

	_, err = Adjust([]float64{0.1}, Method("sidak"))
	assert.True(t, errors.Is(err, ErrUnknownMethod))
}

func TestParseMethod(t *testing.T) {
	for name, expected := range map[string]Method{
		"":           Holm,
		"holm":       Holm,
		"Bonferroni": Bonferroni,
		"hochberg":   Hochberg,
		"BH":         BH,
		"fdr":        BH,
		"by":         BY,
		"none":       None,
	} {
		got, err := ParseMethod(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, got, name)
	}

	_, err := ParseMethod("hommel")
	assert.True(t, errors.Is(err, ErrUnknownMethod))
}
