// Package padjust adjusts p-values for multiple comparisons.
//
// The procedures match the conventional definitions (as implemented by R's
// p.adjust). Each adjusted value depends on the whole vector, so the
// adjustment must be applied once to the complete set of tests; it is
// invariant to the order in which p-values are supplied.
package padjust

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Method names a fixed adjustment procedure.
type Method string

const (
	// Holm's step-down procedure controls the family-wise error rate. It is
	// uniformly more powerful than Bonferroni and is the default.
	Holm       Method = "holm"
	Bonferroni Method = "bonferroni"
	// Hochberg's step-up procedure controls the family-wise error rate under
	// independence or positive dependence.
	Hochberg Method = "hochberg"
	// BH is Benjamini & Hochberg's false discovery rate procedure.
	BH Method = "BH"
	// BY is Benjamini & Yekutieli's false discovery rate procedure, valid under
	// arbitrary dependence.
	BY   Method = "BY"
	None Method = "none"
)

// Default is the method used when none is configured.
const Default = Holm

var (
	ErrNoPValues     = errors.New("no p-values to adjust")
	ErrUnknownMethod = errors.New("unknown p-value adjustment method")
)

// Methods lists the supported procedures.
var Methods = []Method{Holm, Bonferroni, Hochberg, BH, BY, None}

// ParseMethod resolves a user-supplied method name. "fdr" is accepted as an
// alias for BH and the empty string selects Default.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default, nil
	case "holm":
		return Holm, nil
	case "bonferroni":
		return Bonferroni, nil
	case "hochberg":
		return Hochberg, nil
	case "bh", "fdr":
		return BH, nil
	case "by":
		return BY, nil
	case "none":
		return None, nil
	}

	return "", fmt.Errorf("%w %q (choose one of %s)", ErrUnknownMethod, name, methodNames())
}

func methodNames() string {
	names := make([]string, 0, len(Methods))
	for _, m := range Methods {
		names = append(names, string(m))
	}

	return strings.Join(names, ", ")
}

// Adjust returns the adjusted p-values, aligned with p. An empty input is an
// error rather than an empty result, as is any NaN or out-of-range value.
func Adjust(p []float64, method Method) ([]float64, error) {
	if len(p) == 0 {
		return nil, ErrNoPValues
	}

	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("p-value %d is %v; p-values must lie in [0, 1]", i, v)
		}
	}

	n := float64(len(p))
	out := make([]float64, len(p))

	switch method {
	case None:
		copy(out, p)

	case Bonferroni:
		for i, v := range p {
			out[i] = math.Min(1, n*v)
		}

	case Holm:
		// Ascending; multiplier n-i+1 for the i-th smallest; running max
		o := order(p, false)
		running := 0.0
		for i, idx := range o {
			running = math.Max(running, (n-float64(i))*p[idx])
			out[idx] = math.Min(1, running)
		}

	case Hochberg:
		// Descending; multiplier n-i+1 for the i-th smallest; running min
		o := order(p, true)
		running := math.Inf(1)
		for k, idx := range o {
			i := n - float64(k)
			running = math.Min(running, (n-i+1)*p[idx])
			out[idx] = math.Min(1, running)
		}

	case BH, BY:
		q := 1.0
		if method == BY {
			q = 0
			for i := 1; i <= len(p); i++ {
				q += 1 / float64(i)
			}
		}

		// Descending; multiplier q*n/i for the i-th smallest; running min
		o := order(p, true)
		running := math.Inf(1)
		for k, idx := range o {
			i := n - float64(k)
			running = math.Min(running, q*n/i*p[idx])
			out[idx] = math.Min(1, running)
		}

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, method)
	}

	return out, nil
}

// order returns the indices that sort p. Ties keep input order; the
// procedures above give tied p-values identical results, so tie order never
// leaks into the output.
func order(p []float64, descending bool) []int {
	o := make([]int, len(p))
	for i := range o {
		o[i] = i
	}

	sort.SliceStable(o, func(i, j int) bool {
		if descending {
			return p[o[i]] > p[o[j]]
		}
		return p[o[i]] < p[o[j]]
	})

	return o
}
