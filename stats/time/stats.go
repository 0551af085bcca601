// Package time computes time-domain level statistics of audio blocks.
package time

import (
	"math"

	"github.com/cwbudde/algo-granular/dsp/core"
)

// Stats holds level statistics of a signal. dB fields are -Inf for silence.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // largest absolute sample
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS, 0 for silence
	CrestFactor_dB float64
	ZeroCrossings  int
}

// Calculate computes Stats for signal in one pass.
func Calculate(signal []float64) Stats {
	var m Meter
	m.Update(signal)
	return m.Result()
}

// RMS returns the root-mean-square of signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the largest absolute sample of signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}
	return peak
}

// Meter accumulates Stats across consecutive blocks. Results equal
// Calculate over the concatenated blocks. The zero value is ready to use.
type Meter struct {
	n             int
	sum           float64
	sumSq         float64
	peak          float64
	zeroCrossings int
	last          float64
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	for _, x := range samples {
		if m.n > 0 && m.last*x < 0 {
			m.zeroCrossings++
		}

		m.n++
		m.sum += x
		m.sumSq += x * x
		m.peak = math.Max(m.peak, math.Abs(x))
		m.last = x
	}
}

// Len returns the number of samples accumulated.
func (m *Meter) Len() int { return m.n }

// Result returns the statistics of everything accumulated so far.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return Stats{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	s := Stats{
		Length:        m.n,
		DC:            m.sum / nf,
		RMS:           rms,
		RMS_dB:        core.LinearToDB(rms),
		Peak:          m.peak,
		Peak_dB:       core.LinearToDB(m.peak),
		ZeroCrossings: m.zeroCrossings,
	}

	if rms > 0 {
		s.CrestFactor = m.peak / rms
		s.CrestFactor_dB = core.LinearToDB(s.CrestFactor)
	} else {
		s.CrestFactor_dB = math.Inf(-1)
	}

	return s
}

// Reset clears the accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}
