// Package onepole provides a first-order topology-preserving-transform (TPT)
// filter with simultaneous lowpass and highpass outputs.
//
// The integrator gain g is either derived from a cutoff with the
// rational mapping g = w/(1+w), w = 2*pi*fc/fs, or set directly.
package onepole
