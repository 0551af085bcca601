package window

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window shape. Every shape here starts and ends at zero
// and peaks at one in the middle, so each can serve as a grain envelope.
type Type int

const (
	TypeHann Type = iota
	TypeBlackman
	TypeTukey
	TypeTriangle
	TypeWelch
	TypeCosine
)

var typeNames = [...]string{
	TypeHann:     "hann",
	TypeBlackman: "blackman",
	TypeTukey:    "tukey",
	TypeTriangle: "triangle",
	TypeWelch:    "welch",
	TypeCosine:   "cosine",
}

var (
	hannCoeffs     = []float64{0.5, -0.5}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

const defaultTukeyAlpha = 0.5

// Types returns every supported window type in declaration order.
func Types() []Type {
	return []Type{TypeHann, TypeBlackman, TypeTukey, TypeTriangle, TypeWelch, TypeCosine}
}

// String returns the lower-case name of t.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}

	return typeNames[t]
}

// ParseType resolves a window name (case-insensitive) to its Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}

	return 0, unknownTypeError(name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: defaultTukeyAlpha}
}

// WithAlpha sets the taper fraction of the Tukey window in [0,1].
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 && v <= 1 {
			c.alpha = v
		}
	}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		out[i] = evalWindow(t, x, cfg)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf), opts...)
	vecmath.MulBlockInPlace(buf, coeffs)
}

// ApplyCoefficientsInPlace multiplies samples with precomputed coefficients.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// At evaluates window t at normalized position x in [0,1] without building
// a table. Positions outside the range are clamped.
func At(t Type, x float64, opts ...Option) float64 {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return evalWindow(t, x, cfg)
}

func evalWindow(t Type, x float64, cfg config) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeBlackman:
		// Exact zeros at the edges; the raw sum leaves -1e-17 residue.
		return math.Max(0, cosineFromCoeffs(x, blackmanCoeffs))
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	case TypeTriangle:
		return 1 - math.Abs(2*x-1)
	case TypeWelch:
		d := x - 0.5
		return 1 - 4*d*d
	case TypeCosine:
		return math.Sin(math.Pi * x)
	default:
		return cosineFromCoeffs(x, hannCoeffs)
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return cosineFromCoeffs(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
