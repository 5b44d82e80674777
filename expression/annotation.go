package expression

import (
	"fmt"
	"strings"
)

// AnnotationDelimiter separates the fields packed into the compound gene name
// column.
const AnnotationDelimiter = "||"

// Annotation holds the descriptive fields packed into the compound name
// column. The trailing numeric identifier is discarded.
type Annotation struct {
	Name              string
	BiologicalProcess string
	MolecularFunction string
	SystematicName    string
}

// SplitAnnotation unpacks a compound field such as
//
//	SFB2 || ER to Golgi transport || molecular function unknown || YNL049C || 1082129
//
// Fewer than five parts is a schema violation. Any extra delimiters are folded
// into the discarded identifier.
func SplitAnnotation(compound string) (Annotation, error) {
	parts := strings.SplitN(compound, AnnotationDelimiter, 5)
	if len(parts) < 5 {
		return Annotation{}, fmt.Errorf("%w: expected 5 %q-delimited annotation fields, found %d in %q", ErrSchema, AnnotationDelimiter, len(parts), compound)
	}

	return Annotation{
		Name:              strings.TrimSpace(parts[0]),
		BiologicalProcess: strings.TrimSpace(parts[1]),
		MolecularFunction: strings.TrimSpace(parts[2]),
		SystematicName:    strings.TrimSpace(parts[3]),
	}, nil
}
