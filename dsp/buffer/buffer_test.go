package buffer

import "testing"

func TestNewStereoZeroFilled(t *testing.T) {
	s := NewStereo(8)
	if s.Len() != 8 || len(s.R) != 8 {
		t.Fatalf("Len() = %d/%d, want 8", s.Len(), len(s.R))
	}
	for i := range s.L {
		if s.L[i] != 0 || s.R[i] != 0 {
			t.Fatalf("frame %d not zero", i)
		}
	}
}

func TestNewStereoNegativeLength(t *testing.T) {
	if s := NewStereo(-1); s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for negative input", s.Len())
	}
}

func TestStereoHeadSharesMemory(t *testing.T) {
	s := NewStereo(4)
	h := s.Head(2)
	h.L[1] = 3
	if s.L[1] != 3 {
		t.Fatal("Head should share underlying memory")
	}
	if got := s.Head(10); got.Len() != 4 {
		t.Fatalf("Head(10).Len() = %d, want 4", got.Len())
	}
	if got := s.Head(-2); got.Len() != 0 {
		t.Fatalf("Head(-2).Len() = %d, want 0", got.Len())
	}
}

func TestStereoZeroAndPeak(t *testing.T) {
	s := NewStereo(3)
	copy(s.L, []float64{0.1, -0.9, 0.3})
	copy(s.R, []float64{0.2, 0.4, -0.5})

	pl, pr := s.Peak()
	if pl != 0.9 || pr != 0.5 {
		t.Fatalf("Peak() = (%v,%v), want (0.9,0.5)", pl, pr)
	}

	s.Zero()
	pl, pr = s.Peak()
	if pl != 0 || pr != 0 {
		t.Fatalf("Peak() after Zero = (%v,%v)", pl, pr)
	}
}

func TestStereoInterleaveRoundTrip(t *testing.T) {
	s := NewStereo(3)
	n := s.Deinterleave([]float64{1, -1, 0.5, -0.5, 0.25, -0.25, 9})
	if n != 3 {
		t.Fatalf("Deinterleave frames = %d, want 3", n)
	}

	dst := make([]float32, 4)
	if n := s.Interleave(dst); n != 2 {
		t.Fatalf("Interleave frames = %d, want 2", n)
	}
	want := []float32{1, -1, 0.5, -0.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}
