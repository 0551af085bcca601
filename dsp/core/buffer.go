package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// MinLen returns the shortest length among the given slices.
// It returns 0 when called without arguments.
func MinLen(bufs ...[]float64) int {
	if len(bufs) == 0 {
		return 0
	}
	n := len(bufs[0])
	for _, b := range bufs[1:] {
		if len(b) < n {
			n = len(b)
		}
	}
	return n
}
