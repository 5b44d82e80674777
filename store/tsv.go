// Package store writes analysis results to tab-delimited files, SQLite, and
// BigQuery. Missing statistics are written as empty cells (TSV) or NULL.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/carbocation/growthexpr/expression"
	"github.com/carbocation/growthexpr/pipeline"
	"github.com/carbocation/growthexpr/regression"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// Output file names written by WriteAll.
const (
	TidyFile       = "tidy.tsv"
	TermsFile      = "terms.tsv"
	SlopesFile     = "slopes.tsv"
	SummaryFile    = "nutrient_summary.tsv"
	RecenteredFile = "recentered_intercepts.tsv"
)

type TermRecord struct {
	Name           string     `csv:"name" db:"name"`
	SystematicName string     `csv:"systematic_name" db:"systematic_name"`
	Nutrient       string     `csv:"nutrient" db:"nutrient"`
	Term           string     `csv:"term" db:"term"`
	N              int        `csv:"n" db:"n"`
	Estimate       null.Float `csv:"estimate" db:"estimate"`
	StdError       null.Float `csv:"std_error" db:"std_error"`
	Statistic      null.Float `csv:"statistic" db:"statistic"`
	PValue         null.Float `csv:"p_value" db:"p_value"`
}

type SlopeRecord struct {
	TermRecord
	QValue float64 `csv:"q_value" db:"q_value"`
}

type SummaryRecord struct {
	Nutrient    string  `csv:"nutrient"`
	Tested      int     `csv:"tested"`
	Significant int     `csv:"significant"`
	EnrichmentP float64 `csv:"enrichment_p"`
}

type RecenteredRecord struct {
	Name           string  `csv:"name"`
	SystematicName string  `csv:"systematic_name"`
	Nutrient       string  `csv:"nutrient"`
	Intercept      float64 `csv:"intercept"`
	Centered       float64 `csv:"centered_intercept"`
}

func NewTermRecord(t regression.Term) TermRecord {
	return TermRecord{
		Name:           t.Name,
		SystematicName: t.SystematicName,
		Nutrient:       string(t.Nutrient),
		Term:           t.Term,
		N:              t.N,
		Estimate:       t.Estimate,
		StdError:       t.StdError,
		Statistic:      t.Statistic,
		PValue:         t.PValue,
	}
}

func TermRecords(terms []regression.Term) []TermRecord {
	out := make([]TermRecord, 0, len(terms))
	for _, t := range terms {
		out = append(out, NewTermRecord(t))
	}

	return out
}

func SlopeRecords(slopes []pipeline.AdjustedSlopeTerm) []SlopeRecord {
	out := make([]SlopeRecord, 0, len(slopes))
	for _, s := range slopes {
		out = append(out, SlopeRecord{TermRecord: NewTermRecord(s.Term), QValue: s.QValue})
	}

	return out
}

func SummaryRecords(summary []pipeline.NutrientSignificance) []SummaryRecord {
	out := make([]SummaryRecord, 0, len(summary))
	for _, s := range summary {
		out = append(out, SummaryRecord{
			Nutrient:    string(s.Nutrient),
			Tested:      s.Tested,
			Significant: s.Significant,
			EnrichmentP: s.EnrichmentP,
		})
	}

	return out
}

func RecenteredRecords(rows []regression.RecenteredIntercept) []RecenteredRecord {
	out := make([]RecenteredRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecenteredRecord{
			Name:           r.Name,
			SystematicName: r.SystematicName,
			Nutrient:       string(r.Nutrient),
			Intercept:      r.Intercept,
			Centered:       r.Centered,
		})
	}

	return out
}

// WriteTSV writes a slice of csv-tagged structs, with a header row, as
// tab-delimited text.
func WriteTSV(w io.Writer, records interface{}) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func WriteTidyTSV(w io.Writer, rows []expression.TidyRow) error {
	return WriteTSV(w, rows)
}

// WriteAll writes every table of res into dir, creating dir if needed.
func WriteAll(dir string, res *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pfx.Err(err)
	}

	for _, v := range []struct {
		File    string
		Records interface{}
	}{
		{TidyFile, res.Tidy},
		{TermsFile, TermRecords(res.Terms)},
		{SlopesFile, SlopeRecords(res.Slopes)},
		{SummaryFile, SummaryRecords(res.Summary)},
		{RecenteredFile, RecenteredRecords(res.Recentered)},
	} {
		if err := writeTSVFile(filepath.Join(dir, v.File), v.Records); err != nil {
			return pfx.Err(fmt.Errorf("writing %s: %v", v.File, err))
		}
	}

	return nil
}

func writeTSVFile(path string, records interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteTSV(f, records); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
