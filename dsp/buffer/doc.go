// Package buffer provides the sample storage used by the granular engine:
// a fixed-size stereo circular capture buffer with a freeze flag, and a
// preallocated stereo block type for scratch and host I/O.
//
// Nothing in this package allocates after construction.
package buffer
