// Package dither converts floating-point audio to integer PCM with optional
// dither noise.
package dither

import "fmt"

// Type selects the probability distribution of the dither noise.
type Type int

const (
	// None rounds without added noise.
	None Type = iota
	// Rectangular adds uniform noise of one LSB peak.
	Rectangular
	// Triangular adds the sum of two uniform draws (TPDF).
	Triangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rectangular", "triangular"}

// String returns the lower-case name of t.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}
