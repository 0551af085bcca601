package testutil

import (
	"math"
	"math/rand"
)

// Sine returns length samples of a sine at freqHz starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude) from a fixed
// seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// StereoNoise returns two independent noise channels derived from seed.
func StereoNoise(seed int64, amplitude float64, length int) (left, right []float64) {
	return Noise(seed, amplitude, length), Noise(seed+1, amplitude, length)
}

// Impulse returns a unit impulse at pos. Out-of-range positions yield silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Constant returns a signal holding value for length samples.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Energy returns the sum of squares of data.
func Energy(data []float64) float64 {
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	return sum
}

// Peak returns the largest absolute value in data.
func Peak(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}
