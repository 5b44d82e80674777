package pipeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/growthexpr/expression"
	"github.com/carbocation/growthexpr/padjust"
	"github.com/carbocation/growthexpr/regression"
	fet "github.com/glycerine/golang-fisher-exact"
)

// AdjustedSlopeTerm is a rate term with a p-value, along with its p-value
// adjusted across every slope in the analysis.
type AdjustedSlopeTerm struct {
	regression.Term
	QValue float64
}

// NutrientSignificance summarizes the slope tests under one nutrient.
type NutrientSignificance struct {
	Nutrient    expression.Nutrient
	Tested      int
	Significant int

	// EnrichmentP is the two-sided Fisher's exact test p-value for whether
	// significant slopes are over- or under-represented in this nutrient
	// compared with all others.
	EnrichmentP float64
}

// AdjustSlopes keeps the rate terms that have a p-value and adjusts all of
// them at once with method. An empty selection is an error, since "nothing to
// test" must not be mistaken for "nothing significant".
func AdjustSlopes(terms []regression.Term, method padjust.Method) ([]AdjustedSlopeTerm, error) {
	slopes := make([]AdjustedSlopeTerm, 0, len(terms)/2)
	p := make([]float64, 0, len(terms)/2)

	for _, t := range terms {
		if t.Term != regression.TermRate || !t.PValue.Valid {
			continue
		}
		slopes = append(slopes, AdjustedSlopeTerm{Term: t})
		p = append(p, t.PValue.Float64)
	}

	q, err := padjust.Adjust(p, method)
	if err != nil {
		return nil, fmt.Errorf("adjusting %d slope p-values with %s: %w", len(p), method, err)
	}

	for i := range slopes {
		slopes[i].QValue = q[i]
	}

	return slopes, nil
}

// Summarize counts, per nutrient, the slopes whose q-value is below
// threshold. Nutrients are sorted by decreasing count, then by their
// conventional order.
func Summarize(slopes []AdjustedSlopeTerm, threshold float64) []NutrientSignificance {
	byNutrient := make(map[expression.Nutrient]*NutrientSignificance)
	totalSignificant := 0

	for _, s := range slopes {
		entry, exists := byNutrient[s.Nutrient]
		if !exists {
			entry = &NutrientSignificance{Nutrient: s.Nutrient}
			byNutrient[s.Nutrient] = entry
		}

		entry.Tested++
		if s.QValue < threshold {
			entry.Significant++
			totalSignificant++
		}
	}

	out := make([]NutrientSignificance, 0, len(byNutrient))
	for _, entry := range byNutrient {
		//    in nutrient   other nutrients
		//    n11 sig       n12 sig
		//    n21 not sig   n22 not sig
		n11 := entry.Significant
		n12 := totalSignificant - entry.Significant
		n21 := entry.Tested - entry.Significant
		n22 := len(slopes) - totalSignificant - n21

		_, _, _, twop := fet.FisherExactTest(n11, n12, n21, n22)
		if twop > 1 || math.IsNaN(twop) {
			twop = 1
		}
		entry.EnrichmentP = twop

		out = append(out, *entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Significant != out[j].Significant {
			return out[i].Significant > out[j].Significant
		}
		return out[i].Nutrient.Index() < out[j].Nutrient.Index()
	})

	return out
}
