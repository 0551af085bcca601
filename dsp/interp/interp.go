package interp

// Linear2 interpolates between x0 (t=0) and x1 (t=1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Split separates a non-negative position into its integer index and
// fractional part in [0,1).
func Split(pos float64) (int, float64) {
	i := int(pos)
	return i, pos - float64(i)
}
