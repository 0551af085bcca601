// Package spectrum provides output monitoring in the frequency domain.
//
// Analyzer keeps a sliding window of recent samples and produces a
// single-sided amplitude spectrum every hop, using a periodic window and a
// complex FFT plan built once at construction. Magnitude and Power convert
// complex bins with SIMD-backed kernels.
package spectrum
