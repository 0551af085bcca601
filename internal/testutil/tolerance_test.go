package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1.1, 2, 2.5, 100}
	RequireNear(t, "max diff", MaxAbsDiff(a, b), 0.5, 1e-12)
	if MaxAbsDiff(a, a) != 0 {
		t.Fatal("identical slices should have zero difference")
	}
}

func TestRequireBoundedAccepts(t *testing.T) {
	RequireBounded(t, []float64{-1, 0.5, 1}, 1)
	RequireFinite(t, []float64{0, math.MaxFloat64})
}
