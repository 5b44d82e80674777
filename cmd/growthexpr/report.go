package main

import (
	"fmt"
	"io"

	"github.com/carbocation/growthexpr/describe"
	"github.com/carbocation/growthexpr/pipeline"
)

// HistogramBins is the number of buckets in the raw p-value histogram.
const HistogramBins = 20

func report(w io.Writer, res *pipeline.Result, top int) error {
	fmt.Fprintln(w, "Observations by nutrient:")
	fmt.Fprintln(w, describe.ProfileRows(res.Tidy).Table())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Unadjusted slope p-values:")
	if err := describe.PValueHistogram(w, res.SlopePValues(), HistogramBins); err != nil {
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Growth-rate responsive genes (%s adjustment):\n", res.Method)
	fmt.Fprintln(w, describe.SummaryTable(res.Summary, res.Threshold))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Strongest slopes:")
	fmt.Fprintln(w, describe.SlopeTable(res.Slopes, top))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Largest nutrient-specific baseline shifts:")
	fmt.Fprintln(w, describe.RecenteredTable(res.Recentered, top))

	return nil
}
