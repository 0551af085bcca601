package delay

import (
	"fmt"
	"math"
)

// Sign selects the sign convention of an allpass stage.
type Sign int

const (
	// SignNegative stores v = x + k*tail and outputs tail - k*v.
	SignNegative Sign = iota
	// SignPositive stores v = x - k*tail and outputs tail + k*v.
	SignPositive
)

// Line is a fixed-length circular delay line. The sample at the current
// index is the oldest one (the tail); writes replace it and advance.
type Line struct {
	buffer []float64
	index  int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// ScaledLength rescales a length tuned at refRate to sampleRate, rounding to
// the nearest sample and never returning less than 1.
func ScaledLength(length int, refRate, sampleRate float64) int {
	n := int(math.Round(float64(length) * sampleRate / refRate))
	if n < 1 {
		return 1
	}
	return n
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Tail returns the oldest sample, which is the next one to be overwritten.
func (d *Line) Tail() float64 {
	return d.buffer[d.index]
}

// Push stores sample at the tail, advances and returns the replaced tail.
func (d *Line) Push(sample float64) float64 {
	out := d.buffer[d.index]
	d.buffer[d.index] = sample
	d.advance()
	return out
}

// Read reads an integer delay in samples: Read(1) is the most recent write,
// Read(Len()) the tail. Delays are wrapped into range.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := ((d.index-delay)%size + size) % size
	return d.buffer[readPos]
}

// Allpass runs one sample through the line as a unit-gain allpass diffuser
// with gain k in (-1,1). The tail is read, the feedback term written back at
// the same index, and the index advanced.
func (d *Line) Allpass(x, k float64, sign Sign) float64 {
	delayed := d.buffer[d.index]

	var out float64
	if sign == SignPositive {
		v := x - delayed*k
		d.buffer[d.index] = v
		out = delayed + v*k
	} else {
		v := x + delayed*k
		d.buffer[d.index] = v
		out = delayed - v*k
	}

	d.advance()
	return out
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.index = 0
}

func (d *Line) advance() {
	d.index++
	if d.index >= len(d.buffer) {
		d.index = 0
	}
}
