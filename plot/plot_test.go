package plot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/growthexpr/expression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tidy() []expression.TidyRow {
	out := make([]expression.TidyRow, 0)
	for _, gene := range []struct{ name, sysName string }{{"SFB2", "YNL049C"}, {"", "YNL095C"}, {"QRI7", "YDL104C"}} {
		for i, rate := range []float64{0.05, 0.1, 0.15, 0.2} {
			out = append(out,
				expression.TidyRow{Name: gene.name, SystematicName: gene.sysName, Nutrient: expression.Glucose, Rate: rate, Expression: 0.1 * float64(i)},
				expression.TidyRow{Name: gene.name, SystematicName: gene.sysName, Nutrient: expression.Phosphate, Rate: rate, Expression: -0.2 * float64(i)},
			)
		}
		// A single rate, so no fitted line
		out = append(out, expression.TidyRow{Name: gene.name, SystematicName: gene.sysName, Nutrient: expression.Uracil, Rate: 0.3, Expression: 0.4})
	}

	return out
}

func TestFacets(t *testing.T) {
	facets := Facets(tidy(), nil)
	require.Len(t, facets, 3)
	assert.Equal(t, "YNL049C", facets[0].SystematicName)
	assert.Len(t, facets[0].Rows, 9)
	assert.Equal(t, "SFB2 (YNL049C)", facets[0].Title())
	assert.Equal(t, "YNL049C_SFB2.png", facets[0].FileName())
	assert.Equal(t, "YNL095C", facets[1].Title())
	assert.Equal(t, "YNL095C.png", facets[1].FileName())

	facets = Facets(tidy(), []string{"qri7", " ynl095c "})
	require.Len(t, facets, 2)
	assert.Equal(t, "YNL095C", facets[0].SystematicName)
	assert.Equal(t, "YDL104C", facets[1].SystematicName)

	assert.Empty(t, Facets(tidy(), []string{"NOPE"}))
}

func TestFacetChartSeries(t *testing.T) {
	f := Facets(tidy(), []string{"SFB2"})[0]
	graph := FacetChart(f, Range{0.05, 0.3}, Range{-0.6, 0.4}, 320, 200)

	// Glucose and phosphate get points and a line; uracil only points
	assert.Len(t, graph.Series, 5)
	assert.Equal(t, "Glucose", graph.Series[0].GetName())
	assert.Equal(t, "Uracil", graph.Series[4].GetName())
}

func TestPaddedRangeIsNeverEmpty(t *testing.T) {
	r := Range{Min: 0.2, Max: 0.2}.padded()
	assert.Less(t, r.Min, r.Max)

	r = Range{Min: 0, Max: 1}.padded()
	assert.InDelta(t, -0.05, r.Min, 1e-12)
	assert.InDelta(t, 1.05, r.Max, 1e-12)
}

func TestRender(t *testing.T) {
	for _, freeY := range []bool{false, true} {
		opts := DefaultOptions(filepath.Join(t.TempDir(), "plots"))
		opts.FreeY = freeY
		opts.GridColumns = 2
		opts.GridCell = 100

		paths, err := Render(tidy(), opts)
		require.NoError(t, err)
		require.Len(t, paths, 3)

		for _, path := range paths {
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}

		f, err := os.Open(filepath.Join(opts.Dir, opts.GridFile))
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)

		// Two columns of 100px; two rows of 100 * 400/640 px
		assert.Equal(t, 200, cfg.Width)
		assert.Equal(t, 2*63, cfg.Height)
	}
}

func TestRenderNothing(t *testing.T) {
	_, err := Render(tidy(), Options{Dir: t.TempDir(), Genes: []string{"NOPE"}})
	assert.Error(t, err)
}
