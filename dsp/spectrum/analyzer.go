package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-granular/dsp/core"
	"github.com/cwbudde/algo-granular/dsp/window"
)

const (
	minAnalyzerSize = 16
	maxAnalyzerSize = 1 << 16
)

// Analyzer computes amplitude spectra of a streamed signal. A new frame is
// analyzed every hop samples once the first size samples have arrived.
//
// Analyzer allocates only in NewAnalyzer and is not thread-safe.
type Analyzer struct {
	size int
	hop  int

	window []float64
	norm   float64
	plan   *algofft.Plan[complex128]

	ring     []float64
	write    int
	filled   int
	sinceHop int

	frame  []float64
	input  []complex128
	output []complex128
	re, im []float64

	amplitude []float64
	frames    int
}

// NewAnalyzer creates an analyzer with a power-of-two frame size, an overlap
// in [0, 0.95] between consecutive frames and the given window shape.
func NewAnalyzer(size int, overlap float64, t window.Type) (*Analyzer, error) {
	if !core.IsPowerOfTwo(size) || size < minAnalyzerSize || size > maxAnalyzerSize {
		return nil, fmt.Errorf("analyzer size must be a power of two in [%d, %d]: %d",
			minAnalyzerSize, maxAnalyzerSize, size)
	}

	if overlap < 0 || overlap > 0.95 || math.IsNaN(overlap) {
		return nil, fmt.Errorf("analyzer overlap must be in [0, 0.95]: %f", overlap)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("analyzer fft plan: %w", err)
	}

	win := window.Generate(t, size, window.WithPeriodic())
	gain := window.Analyze(win).CoherentGain
	if gain <= 0 {
		return nil, fmt.Errorf("analyzer window %s has no coherent gain", t)
	}

	hop := int(math.Round(float64(size) * (1 - overlap)))
	if hop < 1 {
		hop = 1
	}

	bins := size/2 + 1

	return &Analyzer{
		size:      size,
		hop:       hop,
		window:    win,
		norm:      float64(size) * gain,
		plan:      plan,
		ring:      make([]float64, size),
		frame:     make([]float64, size),
		input:     make([]complex128, size),
		output:    make([]complex128, size),
		re:        make([]float64, bins),
		im:        make([]float64, bins),
		amplitude: make([]float64, bins),
	}, nil
}

// Size returns the frame length.
func (a *Analyzer) Size() int { return a.size }

// Hop returns the number of samples between analyzed frames.
func (a *Analyzer) Hop() int { return a.hop }

// Bins returns the number of single-sided bins, Size()/2+1.
func (a *Analyzer) Bins() int { return len(a.amplitude) }

// Frames returns the number of frames analyzed since construction or Reset.
func (a *Analyzer) Frames() int { return a.frames }

// Ready reports whether at least one frame has been analyzed.
func (a *Analyzer) Ready() bool { return a.frames > 0 }

// Amplitude returns the single-sided amplitude spectrum of the latest frame.
// A full-scale sine centered on a bin reads as its amplitude. The slice is
// owned by the analyzer and overwritten by the next frame.
func (a *Analyzer) Amplitude() []float64 { return a.amplitude }

// Write feeds samples and returns how many frames were analyzed.
func (a *Analyzer) Write(samples []float64) int {
	analyzed := 0
	for _, x := range samples {
		a.ring[a.write] = x
		a.write++
		if a.write == a.size {
			a.write = 0
		}

		if a.filled < a.size {
			a.filled++
		}

		a.sinceHop++
		if a.filled < a.size || a.sinceHop < a.hop {
			continue
		}

		a.sinceHop = 0
		if a.analyze() {
			analyzed++
		}
	}
	return analyzed
}

// Reset clears buffered samples and the last spectrum.
func (a *Analyzer) Reset() {
	core.Zero(a.ring)
	core.Zero(a.amplitude)
	a.write = 0
	a.filled = 0
	a.sinceHop = 0
	a.frames = 0
}

func (a *Analyzer) analyze() bool {
	n := copy(a.frame, a.ring[a.write:])
	copy(a.frame[n:], a.ring[:a.write])

	if err := window.ApplyCoefficientsInPlace(a.frame, a.window); err != nil {
		return false
	}

	for i, s := range a.frame {
		a.input[i] = complex(s, 0)
	}

	if err := a.plan.Forward(a.output, a.input); err != nil {
		return false
	}

	for k := range a.re {
		a.re[k] = real(a.output[k])
		a.im[k] = imag(a.output[k])
	}
	MagnitudeFromParts(a.amplitude, a.re, a.im)

	last := len(a.amplitude) - 1
	for k := range a.amplitude {
		scale := 2 / a.norm
		if k == 0 || k == last {
			scale = 1 / a.norm
		}
		a.amplitude[k] *= scale
	}

	a.frames++
	return true
}
