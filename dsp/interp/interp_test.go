package interp

import "testing"

func TestLinear2(t *testing.T) {
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 2.0},
		{t: 0.25, w: 2.5},
		{t: 0.5, w: 3.0},
		{t: 1.0, w: 4.0},
	} {
		got := Linear2(tc.t, 2, 4)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestSplit(t *testing.T) {
	i, frac := Split(7.25)
	if i != 7 || frac != 0.25 {
		t.Fatalf("Split(7.25) = (%d, %v), want (7, 0.25)", i, frac)
	}

	i, frac = Split(3)
	if i != 3 || frac != 0 {
		t.Fatalf("Split(3) = (%d, %v), want (3, 0)", i, frac)
	}
}
