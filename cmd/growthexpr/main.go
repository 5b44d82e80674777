// growthexpr fits, for every gene and limiting nutrient, a linear model of
// expression on growth rate, and reports which genes' expression responds to
// growth rate after correcting for multiple testing.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/growthexpr"
	_ "github.com/carbocation/growthexpr/compileinfoprint"
	"github.com/carbocation/growthexpr/pipeline"
	"github.com/carbocation/growthexpr/plot"
	"github.com/carbocation/growthexpr/store"
)

const BufferSize = 4096 * 8

var STDOUT = bufio.NewWriterSize(os.Stdout, BufferSize)

// Safe for concurrent use by multiple goroutines
var client *storage.Client

func main() {
	defer STDOUT.Flush()

	var (
		inputPath  string
		configPath string
		outDir     string
		plotDir    string
		genes      string
		freeY      bool
		sqlitePath string
		bqProject  string
		bqDataset  string
		bqTable    string
		top        int

		annotationColumn string
		dropColumns      string
		delimiter        string
		method           string
		threshold        float64
		workers          int
	)

	defaults := pipeline.DefaultConfig()

	flag.StringVar(&inputPath, "input", "", "Path, http(s) URL, or gs:// path of the expression table. May be gzip, bzip2, xz, zlib, or zip compressed.")
	flag.StringVar(&configPath, "config", "", "Optional. JSON config file. Flags that are set explicitly override its values.")
	flag.StringVar(&annotationColumn, "annotation-column", defaults.AnnotationColumn, "Name of the column holding the '||'-delimited gene annotation.")
	flag.StringVar(&dropColumns, "drop", strings.Join(defaults.DropColumns, ","), "Comma-separated columns to ignore.")
	flag.StringVar(&delimiter, "delimiter", defaults.Delimiter, "Field delimiter: 'tab', 'comma', 'auto', or a single character.")
	flag.StringVar(&method, "method", defaults.Method, "P-value adjustment: holm, bonferroni, hochberg, BH (or fdr), BY, or none.")
	flag.Float64Var(&threshold, "threshold", defaults.Threshold, "Adjusted p-value below which a slope counts as significant.")
	flag.IntVar(&workers, "workers", defaults.Workers, "Concurrent regression fits. Values < 1 use one per CPU.")
	flag.StringVar(&outDir, "out", "", "Optional. Directory for the result TSVs.")
	flag.StringVar(&plotDir, "plot", "", "Optional. Directory for one PNG per gene plus a grid of all of them.")
	flag.StringVar(&genes, "genes", "", "Optional. Comma-separated names or systematic names to restrict plotting to.")
	flag.BoolVar(&freeY, "free-y", false, "Give every plotted gene its own y-axis range?")
	flag.StringVar(&sqlitePath, "sqlite", "", "Optional. SQLite database to write tidy rows, terms, and slopes into.")
	flag.StringVar(&bqProject, "bq-project", "", "Optional. BigQuery project to export adjusted slopes to.")
	flag.StringVar(&bqDataset, "bq-dataset", "", "BigQuery dataset (required with -bq-project).")
	flag.StringVar(&bqTable, "bq-table", "growth_rate_slopes", "BigQuery table.")
	flag.IntVar(&top, "top", 20, "Number of slopes and re-centered intercepts to print. 0 prints all.")
	flag.Parse()

	if inputPath == "" {
		flag.PrintDefaults()
		return
	}

	cfg := defaults
	if configPath != "" {
		var err error
		cfg, err = pipeline.ParseJSONConfigFromPath(configPath)
		if err != nil {
			log.Fatalln(err)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "annotation-column":
			cfg.AnnotationColumn = annotationColumn
		case "drop":
			cfg.DropColumns = splitList(dropColumns)
		case "delimiter":
			cfg.Delimiter = delimiter
		case "method":
			cfg.Method = method
		case "threshold":
			cfg.Threshold = threshold
		case "workers":
			cfg.Workers = workers
		}
	})

	ctx := context.Background()

	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	if strings.HasPrefix(inputPath, "gs://") {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	log.Println("Reading", inputPath)
	data, err := growthexpr.OpenFileOrURL(ctx, inputPath, client)
	if err != nil {
		log.Fatalln(err)
	}

	res, err := pipeline.Run(ctx, data, cfg)
	if err != nil {
		log.Fatalln(err)
	}

	if err := report(STDOUT, res, top); err != nil {
		log.Fatalln(err)
	}

	if outDir != "" {
		if err := store.WriteAll(growthexpr.ExpandHome(outDir), res); err != nil {
			log.Fatalln(err)
		}
		log.Println("Wrote result tables to", outDir)
	}

	if plotDir != "" {
		opts := plot.DefaultOptions(growthexpr.ExpandHome(plotDir))
		opts.FreeY = freeY
		opts.Genes = splitList(genes)

		paths, err := plot.Render(res.Tidy, opts)
		if err != nil {
			log.Fatalln(err)
		}
		log.Println("Plotted", len(paths), "genes into", plotDir)
	}

	if sqlitePath != "" {
		if err := store.WriteSQLite(growthexpr.ExpandHome(sqlitePath), res); err != nil {
			log.Fatalln(err)
		}
		log.Println("Wrote results to", sqlitePath)
	}

	if bqProject != "" {
		wbq, err := store.NewWrappedBigQuery(ctx, bqProject, bqDataset, bqTable)
		if err != nil {
			log.Fatalln(err)
		}
		defer wbq.Close()

		if err := wbq.InsertSlopes(inputPath, res.Slopes); err != nil {
			log.Fatalln(err)
		}
	}
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
