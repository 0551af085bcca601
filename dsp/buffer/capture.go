package buffer

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-granular/dsp/core"
	"github.com/cwbudde/algo-granular/dsp/interp"
)

// Capture is a stereo circular sample history. Its length is a power of two
// fixed at construction and every index is wrapped with a bitmask, so no
// read or write can go out of range.
//
// Capture is not thread-safe; it is owned by the audio processing context.
type Capture struct {
	l, r   []float64
	mask   int
	head   int
	frozen bool
}

// NewCapture returns a zeroed capture buffer of size frames.
// size must be a power of two.
func NewCapture(size int) (*Capture, error) {
	if !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("capture size must be a power of two > 0: %d", size)
	}

	return &Capture{
		l:    make([]float64, size),
		r:    make([]float64, size),
		mask: size - 1,
	}, nil
}

// Size returns the buffer length in frames.
func (c *Capture) Size() int { return len(c.l) }

// WriteHead returns the index the next Write will store to.
func (c *Capture) WriteHead() int { return c.head }

// Frozen reports whether writes are currently suppressed.
func (c *Capture) Frozen() bool { return c.frozen }

// SetFrozen toggles freeze. Contents are preserved exactly either way.
func (c *Capture) SetFrozen(frozen bool) { c.frozen = frozen }

// Write stores one frame at the write head and advances it, unless frozen.
func (c *Capture) Write(l, r float64) {
	if c.frozen {
		return
	}

	c.l[c.head] = l
	c.r[c.head] = r
	c.head = (c.head + 1) & c.mask
}

// WriteBlock writes min(len(l), len(r)) frames.
func (c *Capture) WriteBlock(l, r []float64) {
	if c.frozen {
		return
	}

	n := core.MinLen(l, r)
	for i := 0; i < n; i++ {
		c.l[c.head] = l[i]
		c.r[c.head] = r[i]
		c.head = (c.head + 1) & c.mask
	}
}

// Read returns the frame at index i, wrapped into range.
func (c *Capture) Read(i int) (float64, float64) {
	i &= c.mask
	return c.l[i], c.r[i]
}

// Mix adds a frame into index i (wrapped) without moving the write head.
func (c *Capture) Mix(i int, l, r float64) {
	i &= c.mask
	c.l[i] += l
	c.r[i] += r
}

// ReadLinear reads a fractional position by interpolating between floor
// and floor+1, both wrapped.
func (c *Capture) ReadLinear(pos float64) (float64, float64) {
	i, frac := interp.Split(c.Wrap(pos))
	i0 := i & c.mask
	i1 := (i + 1) & c.mask

	return interp.Linear2(frac, c.l[i0], c.l[i1]), interp.Linear2(frac, c.r[i0], c.r[i1])
}

// Wrap folds a fractional position into [0, Size()).
func (c *Capture) Wrap(pos float64) float64 {
	size := float64(len(c.l))
	if pos >= 0 && pos < size {
		return pos
	}

	pos = math.Mod(pos, size)
	if pos < 0 {
		pos += size
	}
	if pos >= size {
		pos -= size
	}

	return pos
}

// Reset clears the contents, rewinds the write head and unfreezes.
func (c *Capture) Reset() {
	core.Zero(c.l)
	core.Zero(c.r)
	c.head = 0
	c.frozen = false
}
