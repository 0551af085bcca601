package onepole

import (
	"math"
	"testing"
)

func TestCoefficient(t *testing.T) {
	w := 2 * math.Pi * 20 / 48000
	want := w / (1 + w)
	if got := Coefficient(20, 48000); math.Abs(got-want) > 1e-15 {
		t.Fatalf("Coefficient(20, 48000) = %v, want %v", got, want)
	}

	for _, tc := range []struct{ fc, fs float64 }{{0, 48000}, {-5, 48000}, {100, 0}} {
		if got := Coefficient(tc.fc, tc.fs); got != 0 {
			t.Fatalf("Coefficient(%v, %v) = %v, want 0", tc.fc, tc.fs, got)
		}
	}
}

func TestOutputsSumToInput(t *testing.T) {
	var f Filter
	f.Configure(1000, 48000)

	for i := 0; i < 256; i++ {
		x := math.Sin(float64(i) * 0.1)
		lp, hp := f.Process(x)
		if math.Abs(lp+hp-x) > 1e-12 {
			t.Fatalf("sample %d: lp+hp=%v, want %v", i, lp+hp, x)
		}
	}
}

func TestHighpassRejectsDC(t *testing.T) {
	var f Filter
	f.Configure(20, 48000)

	var y float64
	for i := 0; i < 48000; i++ {
		y = f.Highpass(1)
	}
	if math.Abs(y) > 1e-3 {
		t.Fatalf("DC after 1 s = %v, want ~0", y)
	}
}

func TestLowpassConvergesToDC(t *testing.T) {
	var f Filter
	f.SetCoefficient(0.7)

	var y float64
	for i := 0; i < 100; i++ {
		y = f.Lowpass(0.5)
	}
	if math.Abs(y-0.5) > 1e-9 {
		t.Fatalf("lowpass DC = %v, want 0.5", y)
	}
}

func TestHighpassPassesNyquist(t *testing.T) {
	var f Filter
	f.Configure(20, 48000)

	var peak float64
	for i := 0; i < 4800; i++ {
		x := 1.0
		if i%2 == 1 {
			x = -1
		}
		y := f.Highpass(x)
		if i > 4000 {
			peak = math.Max(peak, math.Abs(y))
		}
	}
	if peak < 0.99 {
		t.Fatalf("nyquist peak = %v, want ~1", peak)
	}
}

func TestSetCoefficientClamps(t *testing.T) {
	var f Filter
	f.SetCoefficient(2)
	if f.Coefficient() != 1 {
		t.Fatalf("Coefficient() = %v, want 1", f.Coefficient())
	}
	f.SetCoefficient(-1)
	if f.Coefficient() != 0 {
		t.Fatalf("Coefficient() = %v, want 0", f.Coefficient())
	}
}

func TestReset(t *testing.T) {
	var f Filter
	f.SetCoefficient(0.5)
	f.Lowpass(1)
	f.Reset()

	if lp := f.Lowpass(0); lp != 0 {
		t.Fatalf("lowpass after reset = %v, want 0", lp)
	}
}
