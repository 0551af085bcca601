package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	minBitDepth = 2
	maxBitDepth = 32
)

type config struct {
	typ       Type
	amplitude float64
	seed      uint64
}

// Option configures a Quantizer.
type Option func(*config) error

// WithType sets the dither noise PDF (default Triangular).
func WithType(t Type) Option {
	return func(cfg *config) error {
		if !t.Valid() {
			return fmt.Errorf("dither: invalid type: %d", t)
		}
		cfg.typ = t
		return nil
	}
}

// WithAmplitude scales the dither noise in LSBs (default 1).
func WithAmplitude(amp float64) Option {
	return func(cfg *config) error {
		if amp < 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
			return fmt.Errorf("dither: amplitude must be >= 0 and finite: %f", amp)
		}
		cfg.amplitude = amp
		return nil
	}
}

// WithSeed makes the noise sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// Quantizer maps samples in [-1, 1] to signed integers of a fixed bit
// depth. Out-of-range results are clipped to the integer range.
//
// Quantizer is not thread-safe.
type Quantizer struct {
	bitDepth  int
	typ       Type
	amplitude float64
	rng       *rand.Rand

	scale  float64
	lo, hi int
}

// NewQuantizer creates a quantizer for bitDepth in [2, 32].
func NewQuantizer(bitDepth int, opts ...Option) (*Quantizer, error) {
	if bitDepth < minBitDepth || bitDepth > maxBitDepth {
		return nil, fmt.Errorf("dither: bit depth must be in [%d, %d]: %d", minBitDepth, maxBitDepth, bitDepth)
	}

	cfg := config{typ: Triangular, amplitude: 1, seed: rand.Uint64()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	full := math.Exp2(float64(bitDepth - 1))
	return &Quantizer{
		bitDepth:  bitDepth,
		typ:       cfg.typ,
		amplitude: cfg.amplitude,
		rng:       rand.New(rand.NewPCG(cfg.seed, 0)),
		scale:     full - 1,
		lo:        -int(full),
		hi:        int(full) - 1,
	}, nil
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither noise type.
func (q *Quantizer) Type() Type { return q.typ }

// Quantize converts one sample.
func (q *Quantizer) Quantize(x float64) int {
	v := math.Round(x*q.scale + q.noise())
	switch {
	case math.IsNaN(v):
		return 0
	case v >= float64(q.hi):
		return q.hi
	case v <= float64(q.lo):
		return q.lo
	}
	return int(v)
}

// Interleave quantizes a stereo pair into dst as L/R frames and returns the
// number of frames written.
func (q *Quantizer) Interleave(dst []int, l, r []float64) int {
	n := min(len(dst)/2, len(l), len(r))
	for i := 0; i < n; i++ {
		dst[2*i] = q.Quantize(l[i])
		dst[2*i+1] = q.Quantize(r[i])
	}
	return n
}

func (q *Quantizer) noise() float64 {
	switch q.typ {
	case Rectangular:
		return q.amplitude * (2*q.rng.Float64() - 1)
	case Triangular:
		return q.amplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}
