//go:build cgo

package store

import (
	"strings"

	"github.com/carbocation/growthexpr/pipeline"
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tidy (
	name TEXT NOT NULL,
	biological_process TEXT NOT NULL,
	molecular_function TEXT NOT NULL,
	systematic_name TEXT NOT NULL,
	nutrient TEXT NOT NULL,
	rate REAL NOT NULL,
	expression REAL NOT NULL,
	sample TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS terms (
	name TEXT NOT NULL,
	systematic_name TEXT NOT NULL,
	nutrient TEXT NOT NULL,
	term TEXT NOT NULL,
	n INTEGER NOT NULL,
	estimate REAL,
	std_error REAL,
	statistic REAL,
	p_value REAL
);
CREATE TABLE IF NOT EXISTS slopes (
	name TEXT NOT NULL,
	systematic_name TEXT NOT NULL,
	nutrient TEXT NOT NULL,
	term TEXT NOT NULL,
	n INTEGER NOT NULL,
	estimate REAL,
	std_error REAL,
	statistic REAL,
	p_value REAL,
	q_value REAL NOT NULL
);`

const termColumns = "name, systematic_name, nutrient, term, n, estimate, std_error, statistic, p_value"

type tidyRecord struct {
	Name              string  `db:"name"`
	BiologicalProcess string  `db:"biological_process"`
	MolecularFunction string  `db:"molecular_function"`
	SystematicName    string  `db:"systematic_name"`
	Nutrient          string  `db:"nutrient"`
	Rate              float64 `db:"rate"`
	Expression        float64 `db:"expression"`
	Sample            string  `db:"sample"`
}

// OpenSQLite opens (creating if necessary) a SQLite database at path.
func OpenSQLite(path string) (*sqlx.DB, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return db, nil
}

// WriteSQLite stores the tidy rows, all terms, and the adjusted slopes of res
// in the database at path. Everything is written in one transaction.
func WriteSQLite(path string, res *pipeline.Result) error {
	db, err := OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return writeResult(db, res)
}

func writeResult(db *sqlx.DB, res *pipeline.Result) error {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return pfx.Err(err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}

	if err := insertResult(tx, res); err != nil {
		tx.Rollback()
		return pfx.Err(err)
	}

	return pfx.Err(tx.Commit())
}

func insertResult(tx *sqlx.Tx, res *pipeline.Result) error {
	tidy, err := tx.PrepareNamed(`INSERT INTO tidy (name, biological_process, molecular_function, systematic_name, nutrient, rate, expression, sample)
		VALUES (:name, :biological_process, :molecular_function, :systematic_name, :nutrient, :rate, :expression, :sample)`)
	if err != nil {
		return err
	}
	defer tidy.Close()

	for _, row := range res.Tidy {
		if _, err := tidy.Exec(tidyRecord{
			Name:              row.Name,
			BiologicalProcess: row.BiologicalProcess,
			MolecularFunction: row.MolecularFunction,
			SystematicName:    row.SystematicName,
			Nutrient:          string(row.Nutrient),
			Rate:              row.Rate,
			Expression:        row.Expression,
			Sample:            row.Sample,
		}); err != nil {
			return err
		}
	}

	terms, err := tx.PrepareNamed(`INSERT INTO terms (` + termColumns + `)
		VALUES (:name, :systematic_name, :nutrient, :term, :n, :estimate, :std_error, :statistic, :p_value)`)
	if err != nil {
		return err
	}
	defer terms.Close()

	for _, rec := range TermRecords(res.Terms) {
		if _, err := terms.Exec(rec); err != nil {
			return err
		}
	}

	slopes, err := tx.PrepareNamed(`INSERT INTO slopes (` + termColumns + `, q_value)
		VALUES (:name, :systematic_name, :nutrient, :term, :n, :estimate, :std_error, :statistic, :p_value, :q_value)`)
	if err != nil {
		return err
	}
	defer slopes.Close()

	for _, rec := range SlopeRecords(res.Slopes) {
		if _, err := slopes.Exec(rec); err != nil {
			return err
		}
	}

	return nil
}
