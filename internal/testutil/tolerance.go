package testutil

import (
	"math"
	"testing"
)

// RequireNear fails t when got and want differ by more than eps.
func RequireNear(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("%s: got=%g want=%g (eps %g)", name, got, want, eps)
	}
}

// RequireSliceNear fails t if got and want differ in length or any pair
// differs by more than eps.
func RequireSliceNear(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got=%g want=%g (diff %g > eps %g)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t on the first NaN or Inf in data.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireBounded fails t if any sample is non-finite or exceeds limit in
// magnitude.
func RequireBounded(t *testing.T, data []float64, limit float64) {
	t.Helper()
	RequireFinite(t, data)
	for i, v := range data {
		if math.Abs(v) > limit {
			t.Fatalf("index %d: |%g| exceeds %g", i, v, limit)
		}
	}
}

// MaxAbsDiff returns the largest absolute difference over the common length
// of a and b.
func MaxAbsDiff(a, b []float64) float64 {
	n := min(len(a), len(b))
	maxDiff := 0.0
	for i := 0; i < n; i++ {
		if d := math.Abs(a[i] - b[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
