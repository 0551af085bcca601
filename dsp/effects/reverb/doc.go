// Package reverb provides the stereo diffuser/tank reverb used after the
// granular mixer.
//
// Network feeds the mono sum of its input through four series allpass
// diffusers into two cross-coupled tanks (lowpass, two allpasses, delay).
// Delay lengths are tuned at 32 kHz and rescaled to the running sample rate
// once at construction, so processing never allocates.
package reverb
