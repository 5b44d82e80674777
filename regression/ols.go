// Package regression fits a simple linear model of expression on growth rate
// for every (gene, nutrient) group of a tidy expression table.
package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/guregu/null.v3"
)

// Coefficient is one fitted term. Fields are invalid (null) whenever the
// model does not define them, e.g. standard errors with zero residual
// degrees of freedom.
type Coefficient struct {
	Estimate  null.Float
	StdError  null.Float
	Statistic null.Float
	PValue    null.Float
}

// Fit is the result of an ordinary least squares fit of y = a + b*x.
type Fit struct {
	N         int
	DF        int
	Intercept Coefficient
	Slope     Coefficient
}

// OLS fits y on x with an intercept using the closed-form least squares
// solution. With fewer than two observations, or fewer than two distinct x
// values, the slope is undefined: only the intercept estimate (the mean of y)
// is reported. With exactly two points the estimates are exact but carry no
// standard errors.
func OLS(x, y []float64) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, fmt.Errorf("predictor has %d values but response has %d", len(x), len(y))
	}

	n := len(x)
	out := Fit{N: n, DF: n - 2}
	if out.DF < 0 {
		out.DF = 0
	}

	if n == 0 {
		return out, nil
	}

	if n < 2 || !hasDistinct(x) {
		out.Intercept.Estimate = null.FloatFrom(stat.Mean(y, nil))
		return out, nil
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	out.Intercept.Estimate = null.FloatFrom(alpha)
	out.Slope.Estimate = null.FloatFrom(beta)

	if out.DF < 1 {
		return out, nil
	}

	xbar := stat.Mean(x, nil)
	var sxx, ssr float64
	for i := range x {
		dx := x[i] - xbar
		sxx += dx * dx

		resid := y[i] - alpha - beta*x[i]
		ssr += resid * resid
	}
	sigma2 := ssr / float64(out.DF)

	seSlope := math.Sqrt(sigma2 / sxx)
	seIntercept := math.Sqrt(sigma2 * (1/float64(n) + xbar*xbar/sxx))

	out.Intercept = coefficient(alpha, seIntercept, out.DF)
	out.Slope = coefficient(beta, seSlope, out.DF)

	return out, nil
}

// coefficient derives the t statistic and its two-sided p-value on df degrees
// of freedom.
func coefficient(estimate, stdError float64, df int) Coefficient {
	out := Coefficient{
		Estimate: null.FloatFrom(estimate),
		StdError: null.FloatFrom(stdError),
	}

	t := estimate / stdError
	if math.IsNaN(t) {
		// 0/0: an exactly flat, exactly fitted group
		return out
	}
	out.Statistic = null.FloatFrom(t)

	if math.IsInf(t, 0) {
		out.PValue = null.FloatFrom(0)
		return out
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	p := 2 * dist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}
	out.PValue = null.FloatFrom(p)

	return out
}

func hasDistinct(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return true
		}
	}

	return false
}
