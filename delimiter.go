package growthexpr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. Tab wins over comma when
// nothing is detected, since expression tables are conventionally
// tab-delimited.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}

// ParseDelimiter interprets a user-facing delimiter setting. "auto" inspects
// the data itself.
func ParseDelimiter(setting string, data []byte) (rune, error) {
	switch setting {
	case "", "tab", `\t`, "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	case "auto":
		return DetermineDelimiter(bytes.NewReader(data)), nil
	}

	if r := []rune(setting); len(r) == 1 {
		return r[0], nil
	}

	return 0, fmt.Errorf("unrecognized delimiter %q: use tab, comma, auto, or a single character", setting)
}
