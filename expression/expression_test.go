package expression

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A few rows in the shape of the Brauer et al. (2008) dataset, including a
// missing value, an NA, and a row with no systematic name.
const brauerSample = "GID\tYORF\tNAME\tGWEIGHT\tG0.05\tG0.1\tL0.05\tU0.3\n" +
	"GENE1331X\tA_06_P5820\tSFB2       || ER to Golgi transport || molecular function unknown || YNL049C || 1082129\t1\t-0.24\t-0.13\t-0.3\t0.12\n" +
	"GENE4924X\tA_06_P5866\t           || biological process unknown || molecular function unknown || YNL095C || 1086222\t1\t0.28\t\t0.07\tNA\n" +
	"GENE4690X\tA_06_P1834\tQRI7       || proteolysis and peptidolysis || metalloendopeptidase activity || YDL104C || 1085955\t1\t-0.02\t-0.27\t0.02\t0.15\n" +
	"GENE9999X\tA_06_P9999\tNONE       || unknown || unknown ||   || 1\t1\t0.5\t0.5\t0.5\t0.5\n"

func TestSplitAnnotation(t *testing.T) {
	ann, err := SplitAnnotation("SFB2       || ER to Golgi transport || molecular function unknown || YNL049C || 1082129")
	require.NoError(t, err)
	assert.Equal(t, Annotation{
		Name:              "SFB2",
		BiologicalProcess: "ER to Golgi transport",
		MolecularFunction: "molecular function unknown",
		SystematicName:    "YNL049C",
	}, ann)

	_, err = SplitAnnotation("SFB2 || ER to Golgi transport || YNL049C")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	// Extra delimiters are folded into the discarded identifier
	ann, err = SplitAnnotation("A || B || C || D || 1 || 2")
	require.NoError(t, err)
	assert.Equal(t, "D", ann.SystematicName)
}

func TestSampleLabelRoundTrip(t *testing.T) {
	for _, label := range []string{"G0.05", "G0.1", "G0.15", "G0.2", "G0.25", "G0.3", "L0.05", "P0.1", "S0.2", "N0.25", "U0.3"} {
		code, rate, err := ParseSampleLabel(label)
		require.NoError(t, err, label)
		assert.Equal(t, label, FormatSampleLabel(code, rate))
	}
}

func TestParseSampleLabelErrors(t *testing.T) {
	for _, label := range []string{"", "G", "X0.05", "g0.05", "Gfast", "GNaN", "G+Inf"} {
		_, _, err := ParseSampleLabel(label)
		require.Error(t, err, label)
		assert.True(t, errors.Is(err, ErrSchema), label)
	}
}

func TestDecodeNutrient(t *testing.T) {
	for code, expected := range map[byte]Nutrient{'G': Glucose, 'L': Leucine, 'P': Phosphate, 'S': Sulfate, 'N': Ammonia, 'U': Uracil} {
		got, err := DecodeNutrient(code)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
		assert.Equal(t, code, got.Code())
	}

	_, err := DecodeNutrient('Z')
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Equal(t, -1, Nutrient("Lactose").Index())
	assert.Equal(t, 1, Leucine.Index())
}

func TestParseReshape(t *testing.T) {
	long, err := Parse([]byte(brauerSample), DefaultLayout())
	require.NoError(t, err)

	// 4 genes x 4 samples, nothing dropped yet
	require.Len(t, long, 16)

	first := long[0]
	assert.Equal(t, "SFB2", first.Name)
	assert.Equal(t, "YNL049C", first.SystematicName)
	assert.Equal(t, "G0.05", first.Sample)
	assert.Equal(t, byte('G'), first.Code)
	assert.Equal(t, 0.05, first.Rate)
	assert.True(t, first.Expression.Valid)
	assert.Equal(t, -0.24, first.Expression.Float64)

	// Blank cell and NA are both missing
	assert.False(t, long[5].Expression.Valid)
	assert.Equal(t, "G0.1", long[5].Sample)
	assert.False(t, long[7].Expression.Valid)
	assert.Equal(t, "U0.3", long[7].Sample)

	// Every emitted row re-derives its column name
	for _, row := range long {
		assert.Equal(t, row.Sample, FormatSampleLabel(row.Code, row.Rate))
	}
}

func TestEnrich(t *testing.T) {
	tidy, err := Tidy([]byte(brauerSample), DefaultLayout())
	require.NoError(t, err)

	// 16 long rows, minus two missing values, minus the 4 rows of the gene
	// without a systematic name
	require.Len(t, tidy, 10)

	for _, row := range tidy {
		assert.NotEmpty(t, row.SystematicName)
		assert.NotEqual(t, -1, row.Nutrient.Index())
	}

	assert.Equal(t, Glucose, tidy[0].Nutrient)
	assert.Equal(t, Leucine, tidy[2].Nutrient)
	assert.Equal(t, Uracil, tidy[3].Nutrient)

	// The gene with an empty display name is still kept
	assert.Equal(t, "", tidy[4].Name)
	assert.Equal(t, "YNL095C", tidy[4].SystematicName)
}

func TestEnrichRejectsUnknownCode(t *testing.T) {
	_, err := Enrich([]LongRow{{Annotation: Annotation{SystematicName: "YNL049C"}, Sample: "X0.1", Code: 'X', Rate: 0.1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestParseSchemaViolations(t *testing.T) {
	for name, input := range map[string]string{
		"unknown nutrient column": strings.Replace(brauerSample, "U0.3", "X0.3", 1),
		"malformed rate":          strings.Replace(brauerSample, "U0.3", "Ufast", 1),
		"stray column":            strings.Replace(brauerSample, "GWEIGHT", "WEIGHT", 1),
		"missing annotation":      strings.Replace(brauerSample, "NAME", "GENE", 1),
		"duplicate sample":        strings.Replace(brauerSample, "L0.05", "G0.05", 1),
		"short annotation":        strings.Replace(brauerSample, "|| YDL104C ||", "|", 1),
		"bad expression":          strings.Replace(brauerSample, "-0.27", "low", 1),
		"empty":                   "",
	} {
		_, err := Parse([]byte(input), DefaultLayout())
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrSchema), name)
	}
}

func TestParseErrorNamesLocation(t *testing.T) {
	_, err := Parse([]byte(strings.Replace(brauerSample, "-0.27", "low", 1)), DefaultLayout())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), `"G0.1"`)
}

func TestCustomLayout(t *testing.T) {
	input := "annotation,G0.05,P0.1\nA || b || c || YAL001C || 1,1.5,2.5\n"
	layout := Layout{AnnotationColumn: "annotation", Delimiter: ','}

	tidy, err := Tidy([]byte(input), layout)
	require.NoError(t, err)
	require.Len(t, tidy, 2)
	assert.Equal(t, Phosphate, tidy[1].Nutrient)
	assert.Equal(t, 2.5, tidy[1].Expression)
}
