package frequency

import (
	"testing"

	"github.com/cwbudde/algo-granular/internal/testutil"
)

func singleBin(n, bin int, amplitude float64) []float64 {
	out := make([]float64, n)
	out[bin] = amplitude
	return out
}

func TestCalculateEmpty(t *testing.T) {
	if s := Calculate(nil, 48000); s != (Stats{}) {
		t.Fatalf("empty stats = %+v", s)
	}
	if s := Calculate([]float64{2}, 48000); s.Peak != 2 || s.Energy != 4 || s.Centroid != 0 {
		t.Fatalf("single bin stats = %+v", s)
	}
}

func TestCalculateSingleTone(t *testing.T) {
	// 9 bins at 16 kHz: bin spacing 1 kHz.
	s := Calculate(singleBin(9, 3, 0.5), 16000)

	if s.PeakBin != 3 || s.BinCount != 9 {
		t.Fatalf("peak bin=%d bins=%d", s.PeakBin, s.BinCount)
	}
	testutil.RequireNear(t, "peak Hz", s.PeakHz, 3000, 1e-9)
	testutil.RequireNear(t, "centroid", s.Centroid, 3000, 1e-9)
	testutil.RequireNear(t, "spread", s.Spread, 0, 1e-9)
	testutil.RequireNear(t, "rolloff", s.Rolloff, 3000, 1e-9)
	testutil.RequireNear(t, "energy", s.Energy, 0.25, 0)
	if s.Flatness != 0 {
		t.Fatalf("tone flatness got=%g want=0", s.Flatness)
	}
}

func TestFlatSpectrum(t *testing.T) {
	mag := testutil.Constant(1, 5)
	testutil.RequireNear(t, "flatness", Flatness(mag), 1, 1e-12)
	// Bins 0..4 at 8 kHz: 0, 1, 2, 3, 4 kHz.
	testutil.RequireNear(t, "centroid", Centroid(mag, 8000), 2000, 1e-9)
	testutil.RequireNear(t, "rolloff", Rolloff(mag, 8000, 0.85), 4000, 1e-9)
	testutil.RequireNear(t, "rolloff half", Rolloff(mag, 8000, 0.5), 2000, 1e-9)
}

func TestTwoBinSpread(t *testing.T) {
	mag := []float64{0, 1, 0, 1, 0}
	s := Calculate(mag, 8000)
	testutil.RequireNear(t, "centroid", s.Centroid, 2000, 1e-9)
	testutil.RequireNear(t, "spread", s.Spread, 1000, 1e-9)
}

func TestSilentSpectrum(t *testing.T) {
	s := Calculate(make([]float64, 16), 48000)
	if s.Centroid != 0 || s.Rolloff != 0 || s.Flatness != 0 || s.Peak != 0 {
		t.Fatalf("silent stats = %+v", s)
	}
}
