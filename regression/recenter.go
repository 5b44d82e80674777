package regression

import (
	"math"
	"sort"

	"github.com/carbocation/growthexpr/expression"
	"github.com/montanaflynn/stats"
)

// RecenteredIntercept is a gene's intercept under one nutrient relative to the
// mean of its intercepts across all nutrients.
type RecenteredIntercept struct {
	Name           string
	SystematicName string
	Nutrient       expression.Nutrient
	Intercept      float64
	Centered       float64
}

// Recenter subtracts from each intercept estimate the mean intercept of the
// same systematic name. The result is ordered by decreasing absolute
// deviation, so genes whose baseline expression depends most on the limiting
// nutrient come first.
func Recenter(terms []Term) []RecenteredIntercept {
	bySystematicName := make(map[string][]Term)
	order := make([]string, 0)

	for _, t := range terms {
		if t.Term != TermIntercept || !t.Estimate.Valid {
			continue
		}
		if _, exists := bySystematicName[t.SystematicName]; !exists {
			order = append(order, t.SystematicName)
		}
		bySystematicName[t.SystematicName] = append(bySystematicName[t.SystematicName], t)
	}

	out := make([]RecenteredIntercept, 0, len(terms)/2)
	for _, sysName := range order {
		group := bySystematicName[sysName]

		intercepts := make(stats.Float64Data, 0, len(group))
		for _, t := range group {
			intercepts = append(intercepts, t.Estimate.Float64)
		}

		mean, err := intercepts.Mean()
		if err != nil {
			continue
		}

		for _, t := range group {
			out = append(out, RecenteredIntercept{
				Name:           t.Name,
				SystematicName: t.SystematicName,
				Nutrient:       t.Nutrient,
				Intercept:      t.Estimate.Float64,
				Centered:       t.Estimate.Float64 - mean,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Centered) > math.Abs(out[j].Centered)
	})

	return out
}
