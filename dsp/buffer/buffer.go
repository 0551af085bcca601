package buffer

import "math"

// Stereo is a pair of equally sized channel slices.
// DSP functions accept raw []float64; L and R are exposed directly.
type Stereo struct {
	L []float64
	R []float64
}

// NewStereo returns a zero-filled block of the given frame count.
func NewStereo(frames int) *Stereo {
	if frames < 0 {
		frames = 0
	}
	return &Stereo{
		L: make([]float64, frames),
		R: make([]float64, frames),
	}
}

// Len returns the frame count.
func (s *Stereo) Len() int {
	return len(s.L)
}

// Zero sets all samples to 0.
func (s *Stereo) Zero() {
	for i := range s.L {
		s.L[i] = 0
	}
	for i := range s.R {
		s.R[i] = 0
	}
}

// Head returns a view of the first n frames sharing memory with s.
// n is clamped to [0, Len()].
func (s *Stereo) Head(n int) Stereo {
	if n < 0 {
		n = 0
	}
	if n > len(s.L) {
		n = len(s.L)
	}
	return Stereo{L: s.L[:n], R: s.R[:n]}
}

// Peak returns the largest absolute sample of each channel.
func (s *Stereo) Peak() (float64, float64) {
	var pl, pr float64
	for _, v := range s.L {
		pl = math.Max(pl, math.Abs(v))
	}
	for _, v := range s.R {
		pr = math.Max(pr, math.Abs(v))
	}
	return pl, pr
}

// Interleave writes L/R frames as interleaved float32 into dst and
// returns the number of frames written.
func (s *Stereo) Interleave(dst []float32) int {
	n := len(dst) / 2
	if n > len(s.L) {
		n = len(s.L)
	}
	for i := 0; i < n; i++ {
		dst[2*i] = float32(s.L[i])
		dst[2*i+1] = float32(s.R[i])
	}
	return n
}

// Deinterleave reads interleaved stereo frames from src and returns the
// number of frames read.
func (s *Stereo) Deinterleave(src []float64) int {
	n := len(src) / 2
	if n > len(s.L) {
		n = len(s.L)
	}
	for i := 0; i < n; i++ {
		s.L[i] = src[2*i]
		s.R[i] = src[2*i+1]
	}
	return n
}
