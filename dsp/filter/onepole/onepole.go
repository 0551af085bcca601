package onepole

import (
	"math"

	"github.com/cwbudde/algo-granular/dsp/core"
)

// Filter is a one-pole TPT filter. The zero value passes nothing through the
// lowpass output (g = 0) and everything through the highpass output.
//
// Filter is real-time safe and not thread-safe.
type Filter struct {
	g     float64
	state float64
}

// Coefficient maps a cutoff in Hz to the integrator gain g = w/(1+w) with
// w = 2*pi*cutoff/sampleRate. Non-positive inputs yield 0.
func Coefficient(cutoffHz, sampleRate float64) float64 {
	if cutoffHz <= 0 || sampleRate <= 0 {
		return 0
	}

	w := 2 * math.Pi * cutoffHz / sampleRate

	return w / (1 + w)
}

// Configure sets the coefficient from a cutoff frequency. Filter state is
// kept so the coefficient can change between blocks without clicks.
func (f *Filter) Configure(cutoffHz, sampleRate float64) {
	f.g = Coefficient(cutoffHz, sampleRate)
}

// SetCoefficient sets g directly, clamped to [0,1].
func (f *Filter) SetCoefficient(g float64) {
	f.g = core.Clamp(g, 0, 1)
}

// Coefficient returns the current integrator gain.
func (f *Filter) Coefficient() float64 { return f.g }

// Process advances the filter by one sample and returns both outputs.
func (f *Filter) Process(x float64) (lowpass, highpass float64) {
	v := (x - f.state) * f.g
	lowpass = v + f.state
	f.state = core.FlushDenormals(lowpass + v)

	return lowpass, x - lowpass
}

// Lowpass advances the filter and returns the lowpass output.
func (f *Filter) Lowpass(x float64) float64 {
	lp, _ := f.Process(x)
	return lp
}

// Highpass advances the filter and returns the highpass output.
func (f *Filter) Highpass(x float64) float64 {
	_, hp := f.Process(x)
	return hp
}

// Reset clears the integrator state.
func (f *Filter) Reset() {
	f.state = 0
}
