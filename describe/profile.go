// Package describe produces quick, human-readable summaries of the tidy
// expression table and of the analysis results.
package describe

import (
	"math"
	"sort"

	"github.com/carbocation/growthexpr/expression"
	"github.com/carbocation/runningvariance"
)

// Stat is a streaming accumulator of expression values.
type Stat struct {
	runningvariance.RunningStat
	Min float64
	Max float64
}

func NewStat() *Stat {
	return &Stat{
		*runningvariance.NewRunningStat(),
		math.Inf(1),
		math.Inf(-1),
	}
}

func (s *Stat) Push(x float64) {
	s.RunningStat.Push(x)
	if x > s.Max {
		s.Max = x
	}
	if x < s.Min {
		s.Min = x
	}
}

// NutrientProfile describes the observations under one nutrient limitation.
type NutrientProfile struct {
	Nutrient     expression.Nutrient
	Observations int
	Genes        int
	Rates        []float64
	Mean         float64
	SD           float64
	Min          float64
	Max          float64
}

type Profile struct {
	Observations int
	Genes        int
	Nutrients    []NutrientProfile
}

// ProfileRows summarizes rows in a single pass. Nutrients appear in their
// conventional order; those without observations are omitted.
func ProfileRows(rows []expression.TidyRow) Profile {
	stats := make(map[expression.Nutrient]*Stat)
	genes := make(map[expression.Nutrient]map[string]struct{})
	rates := make(map[expression.Nutrient]map[float64]struct{})
	allGenes := make(map[string]struct{})

	for _, row := range rows {
		st, exists := stats[row.Nutrient]
		if !exists {
			st = NewStat()
			stats[row.Nutrient] = st
			genes[row.Nutrient] = make(map[string]struct{})
			rates[row.Nutrient] = make(map[float64]struct{})
		}

		st.Push(row.Expression)
		genes[row.Nutrient][row.SystematicName] = struct{}{}
		rates[row.Nutrient][row.Rate] = struct{}{}
		allGenes[row.SystematicName] = struct{}{}
	}

	out := Profile{
		Observations: len(rows),
		Genes:        len(allGenes),
	}

	for _, nutrient := range expression.Nutrients {
		st, exists := stats[nutrient]
		if !exists {
			continue
		}

		distinct := make([]float64, 0, len(rates[nutrient]))
		for rate := range rates[nutrient] {
			distinct = append(distinct, rate)
		}
		sort.Float64s(distinct)

		out.Nutrients = append(out.Nutrients, NutrientProfile{
			Nutrient:     nutrient,
			Observations: int(st.N),
			Genes:        len(genes[nutrient]),
			Rates:        distinct,
			Mean:         st.Mean(),
			SD:           st.StandardDeviation(),
			Min:          st.Min,
			Max:          st.Max,
		})
	}

	return out
}
