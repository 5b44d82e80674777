package pipeline

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/growthexpr"
	"github.com/carbocation/growthexpr/expression"
	"github.com/carbocation/growthexpr/padjust"
	"github.com/carbocation/pfx"
)

// DefaultThreshold is the q-value below which a slope counts as significant.
const DefaultThreshold = 0.01

// Config controls the analysis. It can be read from a JSON file; any field
// left out of the file keeps its default.
type Config struct {
	ConfigPath string `json:"-"`

	AnnotationColumn string   `json:"annotation_column"`
	DropColumns      []string `json:"drop_columns"`

	// Delimiter is "tab", "comma", "auto", or a single character.
	Delimiter string `json:"delimiter"`

	Method    string  `json:"method"`
	Threshold float64 `json:"threshold"`

	// Workers bounds the number of concurrent regression fits; < 1 means one
	// per CPU.
	Workers int `json:"workers"`
}

func DefaultConfig() Config {
	layout := expression.DefaultLayout()

	return Config{
		AnnotationColumn: layout.AnnotationColumn,
		DropColumns:      layout.DropColumns,
		Delimiter:        "tab",
		Method:           string(padjust.Default),
		Threshold:        DefaultThreshold,
	}
}

func ParseJSONConfigFromPath(path string) (Config, error) {
	out := DefaultConfig()
	out.ConfigPath = growthexpr.ExpandHome(path)

	f, err := os.Open(out.ConfigPath)
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	return out, pfx.Err(out.Validate())
}

// Validate checks settings that can be checked without the data.
func (c Config) Validate() error {
	if c.AnnotationColumn == "" {
		return fmt.Errorf("annotation_column must be set")
	}

	if _, err := padjust.ParseMethod(c.Method); err != nil {
		return err
	}

	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %v must lie in (0, 1]", c.Threshold)
	}

	return nil
}

// Layout resolves the table layout, inspecting data when the delimiter is
// "auto".
func (c Config) Layout(data []byte) (expression.Layout, error) {
	delim, err := growthexpr.ParseDelimiter(c.Delimiter, data)
	if err != nil {
		return expression.Layout{}, err
	}

	return expression.Layout{
		AnnotationColumn: c.AnnotationColumn,
		DropColumns:      c.DropColumns,
		Delimiter:        delim,
	}, nil
}
