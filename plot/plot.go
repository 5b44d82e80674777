// Package plot draws expression against growth rate, one panel per gene, with
// points and fitted lines colored by the limiting nutrient.
package plot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/carbocation/growthexpr/expression"
	"github.com/carbocation/growthexpr/regression"
	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Options struct {
	// Dir receives one PNG per facet.
	Dir string

	// FreeY gives every facet its own y range. Otherwise all facets share the
	// range of the plotted data, which makes their slopes comparable.
	FreeY bool

	// Genes, if set, restricts plotting to these names or systematic names
	// (case-insensitive).
	Genes []string

	Width  int
	Height int

	// GridFile, if set, is the name (within Dir) of a composite image of all
	// facets, GridColumns wide.
	GridFile    string
	GridColumns int
	GridCell    int
}

func DefaultOptions(dir string) Options {
	return Options{
		Dir:         dir,
		Width:       640,
		Height:      400,
		GridFile:    "facets.png",
		GridColumns: 4,
		GridCell:    320,
	}
}

// Facet is the set of observations for one (name, systematic name) pair.
type Facet struct {
	Name           string
	SystematicName string
	Rows           []expression.TidyRow
}

func (f Facet) Title() string {
	if f.Name == "" {
		return f.SystematicName
	}
	return f.Name + " (" + f.SystematicName + ")"
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (f Facet) FileName() string {
	stem := f.SystematicName
	if f.Name != "" {
		stem += "_" + f.Name
	}

	return unsafeFileChars.ReplaceAllString(stem, "-") + ".png"
}

// Facets splits rows by (Name, SystematicName) in order of first appearance,
// keeping only the requested genes when genes is non-empty.
func Facets(rows []expression.TidyRow, genes []string) []Facet {
	wanted := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		if g = strings.TrimSpace(g); g != "" {
			wanted[strings.ToUpper(g)] = struct{}{}
		}
	}

	type key struct{ name, sysName string }
	index := make(map[key]int)
	out := make([]Facet, 0)

	for _, row := range rows {
		if len(wanted) > 0 {
			_, byName := wanted[strings.ToUpper(row.Name)]
			_, bySysName := wanted[strings.ToUpper(row.SystematicName)]
			if !byName && !bySysName {
				continue
			}
		}

		k := key{row.Name, row.SystematicName}
		i, exists := index[k]
		if !exists {
			out = append(out, Facet{Name: row.Name, SystematicName: row.SystematicName})
			i = len(out) - 1
			index[k] = i
		}
		out[i].Rows = append(out[i].Rows, row)
	}

	return out
}

// Range is a closed interval on one axis.
type Range struct {
	Min float64
	Max float64
}

// padded widens r by 5% on each side, or by 0.5 if it is a single point, so
// that the charting library always sees a non-empty range.
func (r Range) padded() *chart.ContinuousRange {
	delta := r.Max - r.Min
	if delta == 0 {
		return &chart.ContinuousRange{Min: r.Min - 0.5, Max: r.Max + 0.5}
	}

	return &chart.ContinuousRange{Min: r.Min - 0.05*delta, Max: r.Max + 0.05*delta}
}

func dataRange(rows []expression.TidyRow, value func(expression.TidyRow) float64) Range {
	r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, row := range rows {
		v := value(row)
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}

	return r
}

func rateOf(row expression.TidyRow) float64       { return row.Rate }
func expressionOf(row expression.TidyRow) float64 { return row.Expression }

func nutrientColor(n expression.Nutrient) drawing.Color {
	return chart.GetDefaultColor(n.Index())
}

// FacetChart builds the panel for one facet.
func FacetChart(f Facet, x, y Range, width, height int) chart.Chart {
	byNutrient := make(map[expression.Nutrient][]expression.TidyRow)
	for _, row := range f.Rows {
		byNutrient[row.Nutrient] = append(byNutrient[row.Nutrient], row)
	}

	nutrients := make([]expression.Nutrient, 0, len(byNutrient))
	for n := range byNutrient {
		nutrients = append(nutrients, n)
	}
	sort.Slice(nutrients, func(i, j int) bool { return nutrients[i].Index() < nutrients[j].Index() })

	series := make([]chart.Series, 0, 2*len(nutrients))
	for _, n := range nutrients {
		rates := make([]float64, 0, len(byNutrient[n]))
		values := make([]float64, 0, len(byNutrient[n]))
		for _, row := range byNutrient[n] {
			rates = append(rates, row.Rate)
			values = append(values, row.Expression)
		}

		color := nutrientColor(n)
		series = append(series, chart.ContinuousSeries{
			Name: string(n),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    color,
			},
			XValues: rates,
			YValues: values,
		})

		if line, ok := fitLine(rates, values); ok {
			series = append(series, chart.ContinuousSeries{
				Name: string(n) + " fit",
				Style: chart.Style{
					StrokeWidth: 2,
					StrokeColor: color,
				},
				XValues: line[0],
				YValues: line[1],
			})
		}
	}

	graph := chart.Chart{
		Title:  f.Title(),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		XAxis: chart.XAxis{
			Name:  "Growth rate",
			Range: x.padded(),
		},
		YAxis: chart.YAxis{
			Name:  "Expression",
			Range: y.padded(),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph
}

// fitLine returns the endpoints of the least-squares line through the points,
// if a slope can be estimated.
func fitLine(rates, values []float64) ([2][]float64, bool) {
	fit, err := regression.OLS(rates, values)
	if err != nil || !fit.Slope.Estimate.Valid {
		return [2][]float64{}, false
	}

	x := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, r := range rates {
		x.Min = math.Min(x.Min, r)
		x.Max = math.Max(x.Max, r)
	}

	a, b := fit.Intercept.Estimate.Float64, fit.Slope.Estimate.Float64
	return [2][]float64{
		{x.Min, x.Max},
		{a + b*x.Min, a + b*x.Max},
	}, true
}

// RenderFacet writes the PNG panel for f to w.
func RenderFacet(w io.Writer, f Facet, x, y Range, width, height int) error {
	graph := FacetChart(f, x, y, width, height)

	return graph.Render(chart.PNG, w)
}

// Render writes one PNG per facet into opts.Dir, plus the grid composite if
// one is requested. It returns the paths of the facet images.
func Render(rows []expression.TidyRow, opts Options) ([]string, error) {
	facets := Facets(rows, opts.Genes)
	if len(facets) == 0 {
		return nil, fmt.Errorf("no genes to plot")
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, pfx.Err(err)
	}

	plotted := make([]expression.TidyRow, 0)
	for _, f := range facets {
		plotted = append(plotted, f.Rows...)
	}
	xRange := dataRange(plotted, rateOf)
	yRange := dataRange(plotted, expressionOf)

	paths := make([]string, 0, len(facets))
	for _, f := range facets {
		y := yRange
		if opts.FreeY {
			y = dataRange(f.Rows, expressionOf)
		}

		buffer := bytes.NewBuffer([]byte{})
		if err := RenderFacet(buffer, f, xRange, y, opts.Width, opts.Height); err != nil {
			return paths, pfx.Err(fmt.Errorf("plotting %s: %v", f.Title(), err))
		}

		path := filepath.Join(opts.Dir, f.FileName())
		if err := os.WriteFile(path, buffer.Bytes(), 0644); err != nil {
			return paths, pfx.Err(err)
		}
		paths = append(paths, path)
	}

	if opts.GridFile != "" {
		if err := Grid(paths, filepath.Join(opts.Dir, opts.GridFile), opts.GridColumns, opts.GridCell); err != nil {
			return paths, err
		}
	}

	return paths, nil
}
