package domain

import "strings"

// Variant tags one of the eight parallel quizzes.
type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
	VariantC Variant = "C"
	VariantD Variant = "D"
	VariantE Variant = "E"
	VariantF Variant = "F"
	VariantG Variant = "G"
	VariantH Variant = "H"
)

var variants = []Variant{VariantA, VariantB, VariantC, VariantD, VariantE, VariantF, VariantG, VariantH}

// Variants lists every variant in route order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

// ParseVariant accepts a variant letter in either case.
func ParseVariant(raw string) (Variant, error) {
	v := Variant(strings.ToUpper(strings.TrimSpace(raw)))
	if !v.Valid() {
		return "", ErrInvalidVariant
	}
	return v, nil
}

func (v Variant) Valid() bool {
	for _, known := range variants {
		if v == known {
			return true
		}
	}
	return false
}

func (v Variant) String() string {
	return string(v)
}
