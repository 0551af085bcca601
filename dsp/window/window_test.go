package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
				if v < 0 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d]=%v outside [0,1]", i, v)
				}
			}
		})
	}
}

func TestEnvelopeShapeProperties(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			if got := At(typ, 0); math.Abs(got) > 1e-12 {
				t.Fatalf("window(0)=%v, want 0", got)
			}
			if got := At(typ, 1); math.Abs(got) > 1e-12 {
				t.Fatalf("window(1)=%v, want 0", got)
			}
			if got := At(typ, 0.5); math.Abs(got-1) > 1e-12 {
				t.Fatalf("window(0.5)=%v, want 1", got)
			}

			a := Analyze(Generate(typ, 513))
			if !a.Unimodal {
				t.Fatalf("%s not unimodal", typ)
			}
		})
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)

	b := Generate(TypeHann, 16, WithPeriodic())
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("unexpected lengths: %d %d", len(a), len(b))
	}

	if almostEqual(a[15], b[15], 1e-12) {
		t.Fatal("expected different end coefficient for periodic form")
	}
}

func TestTukeyAlpha(t *testing.T) {
	flat := Generate(TypeTukey, 33, WithAlpha(0))
	for i, v := range flat {
		if v != 1 {
			t.Fatalf("alpha=0 coefficient[%d]=%v, want 1", i, v)
		}
	}

	hann := Generate(TypeHann, 33)
	full := Generate(TypeTukey, 33, WithAlpha(1))
	checkGolden(t, full, hann, 1e-12)

	// Out-of-range alpha is ignored.
	def := Generate(TypeTukey, 33)
	bad := Generate(TypeTukey, 33, WithAlpha(3))
	checkGolden(t, bad, def, 0)
}

func TestApplyInPlace(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	Apply(TypeHann, buf)

	if buf[0] != 0 || buf[7] != 0 {
		t.Fatalf("hann edges should be 0, got %v %v", buf[0], buf[7])
	}

	err := ApplyCoefficientsInPlace([]float64{1, 2}, []float64{1})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestENBW(t *testing.T) {
	w := Generate(TypeHann, 2048)

	enbw, err := EquivalentNoiseBandwidth(w)
	if err != nil {
		t.Fatalf("EquivalentNoiseBandwidth error: %v", err)
	}

	if !almostEqual(enbw, 1.5, 0.01) {
		t.Fatalf("hann ENBW=%v, want ~1.5", enbw)
	}

	if _, err := EquivalentNoiseBandwidth(nil); err == nil {
		t.Fatal("expected empty coeffs error")
	}

	if _, err := EquivalentNoiseBandwidth([]float64{0, 0, 0}); err == nil {
		t.Fatal("expected zero coherent gain error")
	}
}

func TestAnalyzeHann(t *testing.T) {
	a := Analyze(Generate(TypeHann, 1025))
	if !almostEqual(a.CoherentGain, 0.5, 1e-3) {
		t.Fatalf("coherent gain=%v, want ~0.5", a.CoherentGain)
	}
	if !almostEqual(a.Peak, 1, 1e-12) || !almostEqual(a.PeakPosition, 0.5, 1e-12) {
		t.Fatalf("peak=%v at %v, want 1 at 0.5", a.Peak, a.PeakPosition)
	}
	if !almostEqual(a.Bandwidth3dB, 1.44, 0.02) {
		t.Fatalf("3 dB bandwidth=%v, want ~1.44", a.Bandwidth3dB)
	}
}

func TestGoldenHann(t *testing.T) {
	hannExpected := []float64{
		0.0, 0.1882550990706332, 0.6112604669781572, 0.9504844339512095,
		0.9504844339512095, 0.6112604669781573, 0.1882550990706333, 0.0,
	}

	checkGolden(t, Generate(TypeHann, 8), hannExpected, 1e-10)
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}

	got, err := ParseType("  Blackman ")
	if err != nil || got != TypeBlackman {
		t.Fatalf("ParseType(Blackman) = %v, %v", got, err)
	}

	_, err = ParseType("kaiser")
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("ParseType(kaiser) err=%v, want ErrUnknownType", err)
	}

	if s := Type(99).String(); s != "unknown" {
		t.Fatalf("Type(99).String()=%q", s)
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if got := Generate(TypeHann, 0); got != nil {
		t.Fatalf("expected nil for zero length, got %v", got)
	}
}

func checkGolden(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len mismatch got=%d want=%d", len(got), len(want))
	}

	for i := range got {
		if !almostEqual(got[i], want[i], tol) {
			t.Fatalf("index %d: got=%.16f want=%.16f", i, got[i], want[i])
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
