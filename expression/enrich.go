package expression

import "fmt"

// TidyRow is one observation: a gene's expression at one nutrient limitation
// and growth rate. Rows produced by Enrich always carry a non-empty
// SystematicName and a measured Expression.
type TidyRow struct {
	Name              string   `csv:"name"`
	BiologicalProcess string   `csv:"biological_process"`
	MolecularFunction string   `csv:"molecular_function"`
	SystematicName    string   `csv:"systematic_name"`
	Nutrient          Nutrient `csv:"nutrient"`
	Rate              float64  `csv:"rate"`
	Expression        float64  `csv:"expression"`

	// Sample is the originating column header, e.g. "G0.05".
	Sample string `csv:"sample"`
}

// Enrich decodes nutrient codes into labels and drops rows without a measured
// expression value or without a systematic name.
func Enrich(rows []LongRow) ([]TidyRow, error) {
	out := make([]TidyRow, 0, len(rows))

	for i, row := range rows {
		nutrient, err := DecodeNutrient(row.Code)
		if err != nil {
			return nil, fmt.Errorf("long row %d (sample %q, gene %q): %w", i, row.Sample, row.SystematicName, err)
		}

		if !row.Expression.Valid || row.SystematicName == "" {
			continue
		}

		out = append(out, TidyRow{
			Name:              row.Name,
			BiologicalProcess: row.BiologicalProcess,
			MolecularFunction: row.MolecularFunction,
			SystematicName:    row.SystematicName,
			Nutrient:          nutrient,
			Rate:              row.Rate,
			Expression:        row.Expression.Float64,
			Sample:            row.Sample,
		})
	}

	return out, nil
}

// Tidy runs Parse and Enrich.
func Tidy(data []byte, layout Layout) ([]TidyRow, error) {
	long, err := Parse(data, layout)
	if err != nil {
		return nil, err
	}

	return Enrich(long)
}
