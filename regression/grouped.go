package regression

import (
	"context"
	"runtime"

	"github.com/carbocation/growthexpr/expression"
	"golang.org/x/sync/errgroup"
	"gopkg.in/guregu/null.v3"
)

// Term names, matching the conventional names for a one-predictor model.
const (
	TermIntercept = "(Intercept)"
	TermRate      = "rate"
)

// Key identifies one regression group.
type Key struct {
	Name           string
	SystematicName string
	Nutrient       expression.Nutrient
}

// Group holds the observations of one gene under one nutrient limitation.
type Group struct {
	Key
	Rates      []float64
	Expression []float64
}

// Term is one row of the per-group coefficient table.
type Term struct {
	Key
	Term      string
	N         int
	Estimate  null.Float
	StdError  null.Float
	Statistic null.Float
	PValue    null.Float
}

// GroupRows partitions tidy rows by (name, systematic name, nutrient). Groups
// are returned in order of first appearance so downstream output is stable.
func GroupRows(rows []expression.TidyRow) []Group {
	index := make(map[Key]int)
	out := make([]Group, 0)

	for _, row := range rows {
		k := Key{Name: row.Name, SystematicName: row.SystematicName, Nutrient: row.Nutrient}

		i, exists := index[k]
		if !exists {
			out = append(out, Group{Key: k})
			i = len(out) - 1
			index[k] = i
		}

		out[i].Rates = append(out[i].Rates, row.Rate)
		out[i].Expression = append(out[i].Expression, row.Expression)
	}

	return out
}

// Terms fits one group and returns its intercept and rate rows, in that order.
func (g Group) Terms() ([]Term, error) {
	fit, err := OLS(g.Rates, g.Expression)
	if err != nil {
		return nil, err
	}

	return []Term{
		newTerm(g.Key, TermIntercept, fit.N, fit.Intercept),
		newTerm(g.Key, TermRate, fit.N, fit.Slope),
	}, nil
}

func newTerm(k Key, name string, n int, c Coefficient) Term {
	return Term{
		Key:       k,
		Term:      name,
		N:         n,
		Estimate:  c.Estimate,
		StdError:  c.StdError,
		Statistic: c.Statistic,
		PValue:    c.PValue,
	}
}

// FitGroups fits every group, using up to workers goroutines (NumCPU if
// workers < 1). Groups are independent, so they may finish in any order, but
// the returned table is always in group order with two rows per group.
func FitGroups(ctx context.Context, groups []Group, workers int) ([]Term, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([][]Term, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			terms, err := groups[i].Terms()
			if err != nil {
				return err
			}
			results[i] = terms

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Term, 0, 2*len(groups))
	for _, terms := range results {
		out = append(out, terms...)
	}

	return out, nil
}

// FitTidy groups and fits a tidy table.
func FitTidy(ctx context.Context, rows []expression.TidyRow, workers int) ([]Term, error) {
	return FitGroups(ctx, GroupRows(rows), workers)
}
