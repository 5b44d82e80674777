// Package pipeline chains the analysis: raw table bytes in; tidy rows,
// regression terms, adjusted slopes, and per-nutrient summaries out. It keeps
// no state between runs.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/carbocation/growthexpr/expression"
	"github.com/carbocation/growthexpr/padjust"
	"github.com/carbocation/growthexpr/regression"
)

type Result struct {
	Method    padjust.Method
	Threshold float64

	Tidy       []expression.TidyRow
	Terms      []regression.Term
	Slopes     []AdjustedSlopeTerm
	Summary    []NutrientSignificance
	Recentered []regression.RecenteredIntercept
}

// Run executes the whole analysis on data.
func Run(ctx context.Context, data []byte, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	method, err := padjust.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	layout, err := cfg.Layout(data)
	if err != nil {
		return nil, err
	}

	long, err := expression.Parse(data, layout)
	if err != nil {
		return nil, fmt.Errorf("loading expression table: %w", err)
	}

	tidy, err := expression.Enrich(long)
	if err != nil {
		return nil, fmt.Errorf("enriching expression table: %w", err)
	}
	log.Printf("Reshaped %d wide cells into %d tidy observations\n", len(long), len(tidy))

	groups := regression.GroupRows(tidy)
	terms, err := regression.FitGroups(ctx, groups, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("fitting regressions: %w", err)
	}
	log.Printf("Fitted %d gene x nutrient regressions\n", len(groups))

	slopes, err := AdjustSlopes(terms, method)
	if err != nil {
		return nil, err
	}
	log.Printf("Adjusted %d slope p-values with the %s method\n", len(slopes), method)

	return &Result{
		Method:     method,
		Threshold:  cfg.Threshold,
		Tidy:       tidy,
		Terms:      terms,
		Slopes:     slopes,
		Summary:    Summarize(slopes, cfg.Threshold),
		Recentered: regression.Recenter(terms),
	}, nil
}

// SlopePValues returns the unadjusted p-values of the slopes, in slope order.
func (r *Result) SlopePValues() []float64 {
	out := make([]float64, 0, len(r.Slopes))
	for _, s := range r.Slopes {
		out = append(out, s.PValue.Float64)
	}

	return out
}
