package describe

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/growthexpr/pipeline"
	"github.com/carbocation/growthexpr/regression"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/guregu/null.v3"
)

// HistogramWidth is the width, in characters, of the longest histogram bar.
const HistogramWidth = 40

func newTableWriter(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	return tw
}

// alignNumbers right-aligns every column from the first numeric one onward.
func alignNumbers(tw table.Writer, firstNumeric, columns int) {
	configs := make([]table.ColumnConfig, 0, columns)
	for i := firstNumeric; i <= columns; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func formatNull(v null.Float) string {
	if !v.Valid {
		return "NA"
	}
	return formatFloat(v.Float64)
}

func formatRates(rates []float64) string {
	out := make([]string, 0, len(rates))
	for _, r := range rates {
		out = append(out, strconv.FormatFloat(r, 'g', -1, 64))
	}

	return strings.Join(out, ",")
}

// Table renders the profile, one row per nutrient.
func (p Profile) Table() string {
	tw := newTableWriter("Nutrient", "Genes", "Obs", "Rates", "Mean", "SD", "Min", "Max")
	for _, n := range p.Nutrients {
		tw.AppendRow(table.Row{
			string(n.Nutrient),
			n.Genes,
			n.Observations,
			formatRates(n.Rates),
			formatFloat(n.Mean),
			formatFloat(n.SD),
			formatFloat(n.Min),
			formatFloat(n.Max),
		})
	}
	tw.AppendFooter(table.Row{"All", p.Genes, p.Observations})
	alignNumbers(tw, 5, 8)

	return tw.Render()
}

// SummaryTable renders the per-nutrient significance counts.
func SummaryTable(summary []pipeline.NutrientSignificance, threshold float64) string {
	tw := newTableWriter("Nutrient", "Tested", fmt.Sprintf("q < %g", threshold), "Enrichment P")
	for _, s := range summary {
		tw.AppendRow(table.Row{string(s.Nutrient), s.Tested, s.Significant, formatFloat(s.EnrichmentP)})
	}
	alignNumbers(tw, 2, 4)

	return tw.Render()
}

// SlopeTable renders the top slopes by ascending q-value. top < 1 renders all
// of them.
func SlopeTable(slopes []pipeline.AdjustedSlopeTerm, top int) string {
	sorted := make([]pipeline.AdjustedSlopeTerm, len(slopes))
	copy(sorted, slopes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].QValue < sorted[j].QValue
	})
	if top > 0 && top < len(sorted) {
		sorted = sorted[:top]
	}

	tw := newTableWriter("Name", "Systematic name", "Nutrient", "N", "Slope", "SE", "t", "P", "Q")
	for _, s := range sorted {
		tw.AppendRow(table.Row{
			s.Name,
			s.SystematicName,
			string(s.Nutrient),
			s.N,
			formatNull(s.Estimate),
			formatNull(s.StdError),
			formatNull(s.Statistic),
			formatNull(s.PValue),
			formatFloat(s.QValue),
		})
	}
	alignNumbers(tw, 4, 9)

	return tw.Render()
}

// RecenteredTable renders the first top re-centered intercepts. top < 1
// renders all of them.
func RecenteredTable(rows []regression.RecenteredIntercept, top int) string {
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	tw := newTableWriter("Name", "Systematic name", "Nutrient", "Intercept", "Centered")
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Name, r.SystematicName, string(r.Nutrient), formatFloat(r.Intercept), formatFloat(r.Centered)})
	}
	alignNumbers(tw, 4, 5)

	return tw.Render()
}

// PValueHistogram prints a text histogram of p, with buckets spanning the
// observed range.
func PValueHistogram(w io.Writer, p []float64, bins int) error {
	if len(p) == 0 {
		return fmt.Errorf("no p-values to plot")
	}
	if bins < 1 {
		return fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}

	return histogram.Fprint(w, histogram.Hist(bins, p), histogram.Linear(HistogramWidth))
}
