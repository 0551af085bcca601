// Package interp provides the interpolation primitives used to read
// fractional positions from circular buffers and lookup tables.
//
// Only 2-point linear interpolation is provided: grain playback and envelope
// lookup both interpolate between floor and floor+1.
package interp
