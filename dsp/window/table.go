package window

import "github.com/cwbudde/algo-granular/dsp/interp"

// DefaultTableSize is the number of points used for grain envelope tables.
const DefaultTableSize = 2048

// Table is a precomputed envelope lookup. It is immutable after NewTable
// and safe to share between processors.
type Table struct {
	typ    Type
	values []float64
	scale  float64
}

// NewTable builds a symmetric lookup table of the given shape and size.
func NewTable(t Type, size int, opts ...Option) (*Table, error) {
	if err := validateTableSize(size); err != nil {
		return nil, err
	}

	return &Table{
		typ:    t,
		values: Generate(t, size, opts...),
		scale:  float64(size - 1),
	}, nil
}

// At returns the envelope amplitude at phase in [0,1], linearly
// interpolated between the two nearest table points at phase*(size-1).
// Phases outside [0,1] are clamped.
func (t *Table) At(phase float64) float64 {
	if phase <= 0 {
		return t.values[0]
	}

	last := len(t.values) - 1
	if phase >= 1 {
		return t.values[last]
	}

	i, frac := interp.Split(phase * t.scale)
	if i >= last {
		return t.values[last]
	}

	return interp.Linear2(frac, t.values[i], t.values[i+1])
}

// Len returns the number of table points.
func (t *Table) Len() int { return len(t.values) }

// Type returns the shape the table was built from.
func (t *Table) Type() Type { return t.typ }

// Value returns the raw table point i. It panics if i is out of range.
func (t *Table) Value(i int) float64 { return t.values[i] }

// Coefficients returns a copy of the table points.
func (t *Table) Coefficients() []float64 {
	out := make([]float64, len(t.values))
	copy(out, t.values)
	return out
}
