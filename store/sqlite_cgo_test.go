//go:build cgo

package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.sqlite")
	require.NoError(t, WriteSQLite(path, sampleResult()))

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	for table, expected := range map[string]int{"tidy": 2, "terms": 2, "slopes": 1} {
		var n int
		require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
		assert.Equal(t, expected, n, table)
	}

	var stdError sql.NullFloat64
	require.NoError(t, db.Get(&stdError, "SELECT std_error FROM terms WHERE term = '(Intercept)'"))
	assert.False(t, stdError.Valid)

	var q float64
	require.NoError(t, db.Get(&q, "SELECT q_value FROM slopes WHERE systematic_name = 'YNL049C'"))
	assert.Equal(t, 0.25, q)
}
