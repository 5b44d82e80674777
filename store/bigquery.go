package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/growthexpr/pipeline"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
	"gopkg.in/guregu/null.v3"
)

// BigQueryBatchSize is the number of rows sent per streaming insert.
const BigQueryBatchSize = 500

type WrappedBigQuery struct {
	Context context.Context
	Client  *bigquery.Client
	Project string
	Dataset string
	Table   string
}

// SlopeRow is one adjusted slope term as stored in BigQuery. Run identifies
// the analysis (usually the input path) so several runs can share a table.
type SlopeRow struct {
	Run            string               `bigquery:"run"`
	Name           string               `bigquery:"name"`
	SystematicName string               `bigquery:"systematic_name"`
	Nutrient       string               `bigquery:"nutrient"`
	Term           string               `bigquery:"term"`
	N              int64                `bigquery:"n"`
	Estimate       bigquery.NullFloat64 `bigquery:"estimate"`
	StdError       bigquery.NullFloat64 `bigquery:"std_error"`
	Statistic      bigquery.NullFloat64 `bigquery:"statistic"`
	PValue         bigquery.NullFloat64 `bigquery:"p_value"`
	QValue         float64              `bigquery:"q_value"`
}

func nullFloat64(f null.Float) bigquery.NullFloat64 {
	return bigquery.NullFloat64{Float64: f.Float64, Valid: f.Valid}
}

func BigQuerySlopeRows(run string, slopes []pipeline.AdjustedSlopeTerm) []*SlopeRow {
	out := make([]*SlopeRow, 0, len(slopes))
	for _, s := range slopes {
		out = append(out, &SlopeRow{
			Run:            run,
			Name:           s.Name,
			SystematicName: s.SystematicName,
			Nutrient:       string(s.Nutrient),
			Term:           s.Term.Term,
			N:              int64(s.N),
			Estimate:       nullFloat64(s.Estimate),
			StdError:       nullFloat64(s.StdError),
			Statistic:      nullFloat64(s.Statistic),
			PValue:         nullFloat64(s.PValue),
			QValue:         s.QValue,
		})
	}

	return out
}

func NewWrappedBigQuery(ctx context.Context, project, dataset, table string) (*WrappedBigQuery, error) {
	if project == "" || dataset == "" || table == "" {
		return nil, fmt.Errorf("BigQuery export needs a project, a dataset, and a table")
	}

	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("connecting to BigQuery: %v", err)
	}

	return &WrappedBigQuery{
		Context: ctx,
		Client:  client,
		Project: project,
		Dataset: dataset,
		Table:   table,
	}, nil
}

func (wbq *WrappedBigQuery) Close() error {
	return wbq.Client.Close()
}

func (wbq *WrappedBigQuery) table() *bigquery.Table {
	return wbq.Client.Dataset(wbq.Dataset).Table(wbq.Table)
}

// ExistingRunRows counts the rows already stored for run. A missing table
// holds no rows.
func (wbq *WrappedBigQuery) ExistingRunRows(run string) (int64, error) {
	query := wbq.Client.Query(fmt.Sprintf("SELECT COUNT(*) AS n FROM `%s.%s.%s` WHERE run = @run", wbq.Project, wbq.Dataset, wbq.Table))
	query.Parameters = []bigquery.QueryParameter{{Name: "run", Value: run}}

	itr, err := query.Read(wbq.Context)
	if err != nil && strings.Contains(err.Error(), "Error 404") {
		// Not an error; the table just doesn't exist yet
		return 0, nil
	} else if err != nil {
		return 0, pfx.Err(err)
	}

	var count int64
	for {
		var values struct {
			N int64 `bigquery:"n"`
		}
		err := itr.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, pfx.Err(err)
		}
		count += values.N
	}

	return count, nil
}

func (wbq *WrappedBigQuery) ensureTable() error {
	_, err := wbq.table().Metadata(wbq.Context)
	if err == nil {
		return nil
	} else if !strings.Contains(err.Error(), "Error 404") {
		return pfx.Err(err)
	}

	schema, err := bigquery.InferSchema(SlopeRow{})
	if err != nil {
		return pfx.Err(err)
	}

	log.Printf("Creating BigQuery table %s.%s.%s\n", wbq.Project, wbq.Dataset, wbq.Table)
	return pfx.Err(wbq.table().Create(wbq.Context, &bigquery.TableMetadata{Schema: schema}))
}

// InsertSlopes streams the adjusted slopes into the table, creating it from
// the SlopeRow schema if it does not exist yet.
func (wbq *WrappedBigQuery) InsertSlopes(run string, slopes []pipeline.AdjustedSlopeTerm) error {
	if err := wbq.ensureTable(); err != nil {
		return err
	}

	existing, err := wbq.ExistingRunRows(run)
	if err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("BigQuery table already holds %d rows for run %q; appending anyway\n", existing, run)
	}

	rows := BigQuerySlopeRows(run, slopes)
	inserter := wbq.table().Inserter()
	for start := 0; start < len(rows); start += BigQueryBatchSize {
		end := start + BigQueryBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		if err := inserter.Put(wbq.Context, rows[start:end]); err != nil {
			return pfx.Err(err)
		}
	}

	log.Printf("Inserted %d slope rows into BigQuery\n", len(rows))

	return nil
}
