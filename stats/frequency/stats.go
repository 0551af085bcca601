// Package frequency computes spectral shape descriptors of one-sided
// magnitude spectra.
package frequency

import "math"

// RolloffFraction is the energy fraction used by Calculate for Rolloff.
const RolloffFraction = 0.85

// Stats describes a one-sided magnitude spectrum (bins 0..Nyquist).
type Stats struct {
	BinCount int
	Peak     float64 // largest magnitude
	PeakBin  int
	PeakHz   float64
	Energy   float64 // sum of squared magnitudes
	Centroid float64 // magnitude-weighted mean frequency (Hz)
	Spread   float64 // magnitude-weighted standard deviation around Centroid (Hz)
	Flatness float64 // geometric / arithmetic mean of bins 1..N-1, 0..1
	Rolloff  float64 // frequency below which RolloffFraction of the energy lies (Hz)
}

// binFreq returns the frequency of bin i of a one-sided spectrum with
// binCount bins, i.e. an FFT of 2*(binCount-1) points.
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Calculate computes Stats for magnitude (linear scale) at sampleRate.
// Spectra with fewer than two bins only report BinCount, Peak and Energy.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)
	s := Stats{BinCount: n}
	if n == 0 {
		return s
	}

	sum := 0.0
	for i, v := range magnitude {
		sum += v
		s.Energy += v * v
		if v > s.Peak {
			s.Peak = v
			s.PeakBin = i
		}
	}

	if n < 2 {
		return s
	}

	s.PeakHz = binFreq(s.PeakBin, sampleRate, n)
	s.Centroid = centroid(magnitude, sampleRate, sum)
	s.Spread = spread(magnitude, sampleRate, s.Centroid, sum)
	s.Flatness = Flatness(magnitude)
	s.Rolloff = rolloff(magnitude, sampleRate, RolloffFraction, s.Energy)

	return s
}

// Centroid returns the spectral centroid in Hz.
func Centroid(magnitude []float64, sampleRate float64) float64 {
	sum := 0.0
	for _, v := range magnitude {
		sum += v
	}
	return centroid(magnitude, sampleRate, sum)
}

func centroid(magnitude []float64, sampleRate, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}

	weighted := 0.0
	for i, v := range magnitude {
		weighted += binFreq(i, sampleRate, n) * v
	}
	return weighted / sumMag
}

func spread(magnitude []float64, sampleRate, cent, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}

	weighted := 0.0
	for i, v := range magnitude {
		d := binFreq(i, sampleRate, n) - cent
		weighted += d * d * v
	}
	return math.Sqrt(weighted / sumMag)
}

// Flatness returns the spectral flatness of bins 1..N-1 in [0,1]. Any zero
// bin makes the result 0.
func Flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	sumLin, sumLog := 0.0, 0.0
	for _, v := range magnitude[1:] {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	bins := float64(n - 1)
	return math.Exp(sumLog/bins) / (sumLin / bins)
}

// Rolloff returns the frequency below which fraction of the spectral energy
// lies.
func Rolloff(magnitude []float64, sampleRate, fraction float64) float64 {
	energy := 0.0
	for _, v := range magnitude {
		energy += v * v
	}
	return rolloff(magnitude, sampleRate, fraction, energy)
}

func rolloff(magnitude []float64, sampleRate, fraction, energy float64) float64 {
	n := len(magnitude)
	if n < 2 || energy == 0 {
		return 0
	}

	threshold := fraction * energy
	cum := 0.0
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}
