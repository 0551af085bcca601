package dither

import (
	"math"
	"testing"
)

func TestNewQuantizerValidation(t *testing.T) {
	tests := []struct {
		name string
		bits int
		opts []Option
	}{
		{"bits low", 1, nil},
		{"bits high", 33, nil},
		{"bad type", 16, []Option{WithType(Type(9))}},
		{"negative amplitude", 16, []Option{WithAmplitude(-1)}},
		{"NaN amplitude", 16, []Option{WithAmplitude(math.NaN())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewQuantizer(tt.bits, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestQuantizerDefaults(t *testing.T) {
	q, err := NewQuantizer(24, nil)
	if err != nil {
		t.Fatal(err)
	}
	if q.BitDepth() != 24 || q.Type() != Triangular {
		t.Fatalf("got %d bit %v, want 24 bit triangular", q.BitDepth(), q.Type())
	}
}

func TestQuantizeWithoutDither(t *testing.T) {
	q, err := NewQuantizer(16, WithType(None))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{0.5, 16384},
		{-0.5, -16384},
		{1, 32767},
		{-1, -32767},
		{1.5, 32767},
		{-1.5, -32768},
		{math.Inf(1), 32767},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := q.Quantize(tt.x); got != tt.want {
			t.Fatalf("Quantize(%g) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestDitherErrorBounded(t *testing.T) {
	for _, typ := range []Type{Rectangular, Triangular} {
		q, err := NewQuantizer(16, WithType(typ), WithSeed(7))
		if err != nil {
			t.Fatal(err)
		}

		const x = 0.1234
		sum := 0.0
		const n = 20000
		for range n {
			v := q.Quantize(x)
			e := float64(v) - x*32767
			if math.Abs(e) > 1.5 {
				t.Fatalf("%v: error %g exceeds 1.5 LSB", typ, e)
			}
			sum += e
		}
		if mean := sum / n; math.Abs(mean) > 0.05 {
			t.Fatalf("%v: mean error %g, want about 0", typ, mean)
		}
	}
}

func TestSeedIsReproducible(t *testing.T) {
	a, _ := NewQuantizer(16, WithSeed(3))
	b, _ := NewQuantizer(16, WithSeed(3))
	for i := range 100 {
		x := float64(i) / 100
		if a.Quantize(x) != b.Quantize(x) {
			t.Fatalf("sample %d differs for equal seeds", i)
		}
	}
}

func TestInterleave(t *testing.T) {
	q, _ := NewQuantizer(16, WithType(None))
	dst := make([]int, 5)

	n := q.Interleave(dst, []float64{0.5, 0, 1}, []float64{-0.5, 1, 0})
	if n != 2 {
		t.Fatalf("frames = %d, want 2", n)
	}
	want := []int{16384, -16384, 0, 32767, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestTypeString(t *testing.T) {
	if Triangular.String() != "triangular" || Type(7).String() != "Type(7)" {
		t.Fatalf("got %q and %q", Triangular.String(), Type(7).String())
	}
}
