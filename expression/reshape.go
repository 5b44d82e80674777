// Package expression parses wide gene-expression tables (one column per
// nutrient/growth-rate sample) and reshapes them into tidy, one
// observation per row form.
package expression

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// ErrSchema marks input that violates the fixed format or vocabulary: an
// unsplittable annotation, an unknown nutrient code, a malformed sample
// column, or an unparseable expression value.
var ErrSchema = errors.New("schema violation")

// Layout describes where things live in the raw table.
type Layout struct {
	// AnnotationColumn holds the compound, AnnotationDelimiter-separated gene
	// description.
	AnnotationColumn string

	// DropColumns are bookkeeping columns that are ignored. Every column that
	// is neither the annotation column nor listed here must be a sample
	// column.
	DropColumns []string

	Delimiter rune
}

// DefaultLayout matches the Brauer et al. (2008) yeast growth-rate dataset.
func DefaultLayout() Layout {
	return Layout{
		AnnotationColumn: "NAME",
		DropColumns:      []string{"GID", "YORF", "GWEIGHT"},
		Delimiter:        '\t',
	}
}

// Sample is one validated sample column of the header.
type Sample struct {
	Label  string
	Code   byte
	Rate   float64
	column int
}

// RawRecord is one gene row of the wide table.
type RawRecord struct {
	// Line is the 1-based line number in the source; the header is line 1.
	Line       int
	Annotation string

	// Values are aligned with Table.Samples.
	Values []null.Float
}

// Table is the parsed but not yet reshaped input.
type Table struct {
	Samples []Sample
	Records []RawRecord
}

// LongRow is one (gene row, sample column) pair after the wide-to-long
// reshape, before nutrient codes are decoded or missing values dropped.
type LongRow struct {
	Annotation
	Sample     string
	Code       byte
	Rate       float64
	Expression null.Float
}

// ReadTable parses the header and all rows of a delimited table. The header is
// validated up front so that an unexpected column aborts the load before any
// row is read.
func ReadTable(r io.Reader, layout Layout) (*Table, error) {
	c := csv.NewReader(r)
	c.Comma = layout.Delimiter
	if c.Comma == 0 {
		c.Comma = '\t'
	}
	c.LazyQuotes = true

	header, err := c.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: the table is empty", ErrSchema)
	} else if err != nil {
		return nil, err
	}

	annotationCol, samples, err := parseHeader(header, layout)
	if err != nil {
		return nil, err
	}

	out := &Table{Samples: samples}

	for line := 2; ; line++ {
		cols, err := c.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSchema, line, err)
		}

		rec := RawRecord{
			Line:       line,
			Annotation: cols[annotationCol],
			Values:     make([]null.Float, len(samples)),
		}

		for i, sample := range samples {
			v, err := parseExpression(cols[sample.column])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, sample.Label, err)
			}
			rec.Values[i] = v
		}

		out.Records = append(out.Records, rec)
	}

	return out, nil
}

func parseHeader(header []string, layout Layout) (int, []Sample, error) {
	drop := make(map[string]struct{}, len(layout.DropColumns))
	for _, v := range layout.DropColumns {
		drop[v] = struct{}{}
	}

	annotationCol := -1
	seen := make(map[string]int, len(header))
	samples := make([]Sample, 0, len(header))

	for i, col := range header {
		col = strings.TrimSpace(col)

		if prior, exists := seen[col]; exists {
			return 0, nil, fmt.Errorf("%w: column %q appears at positions %d and %d", ErrSchema, col, prior+1, i+1)
		}
		seen[col] = i

		if col == layout.AnnotationColumn {
			annotationCol = i
			continue
		}

		if _, skip := drop[col]; skip {
			continue
		}

		code, rate, err := ParseSampleLabel(col)
		if err != nil {
			return 0, nil, fmt.Errorf("header column %d: %w", i+1, err)
		}
		samples = append(samples, Sample{Label: col, Code: code, Rate: rate, column: i})
	}

	if annotationCol < 0 {
		return 0, nil, fmt.Errorf("%w: annotation column %q not found in header", ErrSchema, layout.AnnotationColumn)
	}

	if len(samples) == 0 {
		return 0, nil, fmt.Errorf("%w: no sample columns found in header", ErrSchema)
	}

	return annotationCol, samples, nil
}

func parseExpression(cell string) (null.Float, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "NA") {
		return null.Float{}, nil
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(v, 0) {
		return null.Float{}, fmt.Errorf("%w: expression value %q is not a number", ErrSchema, cell)
	}

	if math.IsNaN(v) {
		return null.Float{}, nil
	}

	return null.FloatFrom(v), nil
}

// Reshape converts the wide table into long form: one LongRow per (record,
// sample column) pair, in record order and then header order. Annotation
// parsing happens here, so a malformed compound field aborts with the line
// that carried it.
func (t *Table) Reshape() ([]LongRow, error) {
	out := make([]LongRow, 0, len(t.Records)*len(t.Samples))

	for _, rec := range t.Records {
		ann, err := SplitAnnotation(rec.Annotation)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.Line, err)
		}

		for i, sample := range t.Samples {
			out = append(out, LongRow{
				Annotation: ann,
				Sample:     sample.Label,
				Code:       sample.Code,
				Rate:       sample.Rate,
				Expression: rec.Values[i],
			})
		}
	}

	return out, nil
}

// Parse reads raw table bytes and returns the long-format rows.
func Parse(data []byte, layout Layout) ([]LongRow, error) {
	table, err := ReadTable(bytes.NewReader(data), layout)
	if err != nil {
		return nil, err
	}

	return table.Reshape()
}
