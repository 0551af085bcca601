package window

import "math"

// Analysis holds properties of a window used as a grain envelope.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N, the average gain a grain applies.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the 3 dB (half-power) main lobe width in bins.
	Bandwidth3dB float64
	// Peak is the largest coefficient and PeakPosition its normalized index.
	Peak         float64
	PeakPosition float64
	// Unimodal reports whether the coefficients never decrease before the
	// peak and never increase after it.
	Unimodal bool
}

// Analyze computes envelope and spectral properties of coeffs.
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}

	sum := 0.0
	sumSq := 0.0
	peakIdx := 0
	for i, c := range coeffs {
		sum += c
		sumSq += c * c
		if c > coeffs[peakIdx] {
			peakIdx = i
		}
	}

	a := Analysis{
		CoherentGain: sum / float64(n),
		Peak:         coeffs[peakIdx],
		Unimodal:     isUnimodal(coeffs, peakIdx),
	}
	if n > 1 {
		a.PeakPosition = float64(peakIdx) / float64(n-1)
	}

	if sum != 0 {
		a.ENBW = float64(n) * sumSq / (sum * sum)
		a.Bandwidth3dB = searchBandwidth(coeffs, dftMagSq(coeffs, 0), n)
	}

	return a
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

func isUnimodal(coeffs []float64, peak int) bool {
	// Tolerance absorbs rounding in the cosine sums on flat plateaus.
	const eps = 1e-12
	for i := 1; i <= peak; i++ {
		if coeffs[i] < coeffs[i-1]-eps {
			return false
		}
	}
	for i := peak + 1; i < len(coeffs); i++ {
		if coeffs[i] > coeffs[i-1]+eps {
			return false
		}
	}
	return true
}

// dftMagSq evaluates |DFT(freq)|^2 at a normalised frequency [0,1).
func dftMagSq(coeffs []float64, freq float64) float64 {
	re, im := 0.0, 0.0
	w := 2 * math.Pi * freq
	for k, c := range coeffs {
		phase := w * float64(k)
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}
	return re*re + im*im
}

// searchBandwidth finds the 3dB (half-power) main lobe width in bins
// using binary search on the DFT magnitude response.
func searchBandwidth(coeffs []float64, dcRef float64, n int) float64 {
	if dcRef == 0 {
		return 0
	}

	invRef := 1.0 / dcRef

	lo := 0.0
	hi := 0.5
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		if dftMagSq(coeffs, mid)*invRef > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}
	// Two-sided: from -f to +f.
	return 2 * lo * float64(n)
}
