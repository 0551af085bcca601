package spectrum

import "github.com/cwbudde/algo-vecmath"

// Magnitude returns |X[k]| for each complex bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im := splitParts(in)
	vecmath.Magnitude(out, re, im)

	return out
}

// Power returns |X[k]|^2 for each complex bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im := splitParts(in)
	vecmath.Power(out, re, im)

	return out
}

// MagnitudeFromParts writes sqrt(re^2 + im^2) into dst without allocating.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// BinFrequency returns the center frequency in Hz of bin k of an fftSize
// transform.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}
	return float64(k) * sampleRate / float64(fftSize)
}

func splitParts(in []complex128) (re, im []float64) {
	re = make([]float64, len(in))
	im = make([]float64, len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im
}
