package expression

import (
	"fmt"
	"math"
	"strconv"
)

// Nutrient is the decoded, human-readable label of the nutrient that limited
// growth in a chemostat sample.
type Nutrient string

const (
	Glucose   Nutrient = "Glucose"
	Leucine   Nutrient = "Leucine"
	Phosphate Nutrient = "Phosphate"
	Sulfate   Nutrient = "Sulfate"
	Ammonia   Nutrient = "Ammonia"
	Uracil    Nutrient = "Uracil"
)

// Nutrients lists the closed vocabulary in its conventional order, which is
// also the order used to assign plot colors.
var Nutrients = []Nutrient{Glucose, Leucine, Phosphate, Sulfate, Ammonia, Uracil}

var nutrientByCode = map[byte]Nutrient{
	'G': Glucose,
	'L': Leucine,
	'P': Phosphate,
	'S': Sulfate,
	'N': Ammonia,
	'U': Uracil,
}

// DecodeNutrient maps a single-letter code to its label. Codes outside the
// vocabulary are an error rather than a pass-through.
func DecodeNutrient(code byte) (Nutrient, error) {
	n, ok := nutrientByCode[code]
	if !ok {
		return "", fmt.Errorf("%w: unrecognized nutrient code %q (expected one of G, L, P, S, N, U)", ErrSchema, string(code))
	}

	return n, nil
}

// Code returns the single-letter code for n, or 0 if n is not in the
// vocabulary.
func (n Nutrient) Code() byte {
	for code, label := range nutrientByCode {
		if label == n {
			return code
		}
	}

	return 0
}

// Index is the position of n within Nutrients, or -1.
func (n Nutrient) Index() int {
	for i, v := range Nutrients {
		if v == n {
			return i
		}
	}

	return -1
}

// ParseSampleLabel splits a sample column header such as "G0.05" at its first
// character into a nutrient code and a growth rate.
func ParseSampleLabel(label string) (code byte, rate float64, err error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("%w: sample column %q is not of the form <nutrient code><rate>", ErrSchema, label)
	}

	code = label[0]
	if _, err := DecodeNutrient(code); err != nil {
		return 0, 0, fmt.Errorf("sample column %q: %w", label, err)
	}

	rate, err = strconv.ParseFloat(label[1:], 64)
	if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, 0, fmt.Errorf("%w: sample column %q has a growth rate %q that is not a finite number", ErrSchema, label, label[1:])
	}

	return code, rate, nil
}

// FormatSampleLabel is the inverse of ParseSampleLabel for canonically
// formatted rates.
func FormatSampleLabel(code byte, rate float64) string {
	return string(code) + strconv.FormatFloat(rate, 'g', -1, 64)
}
