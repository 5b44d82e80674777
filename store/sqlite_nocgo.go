//go:build !cgo

package store

import (
	"fmt"

	"github.com/carbocation/growthexpr/pipeline"
)

// WriteSQLite requires cgo, which this binary was built without.
func WriteSQLite(path string, res *pipeline.Result) error {
	return fmt.Errorf("cannot write %s: SQLite output requires a binary built with cgo", path)
}
