package granular

import (
	"github.com/cwbudde/algo-granular/dsp/buffer"
	"github.com/cwbudde/algo-granular/dsp/window"
)

// MaxGrains is the size of the grain pool. Capacity can be lowered at run
// time but never raised above it.
const MaxGrains = 64

type grain struct {
	active   bool
	phase    float64
	pos      float64
	ratio    float64
	gainL    float64
	gainR    float64
	duration int
	age      int
}

// render returns one stereo frame of the grain and advances it. phase stays
// equal to age/duration and the grain deactivates once phase reaches 1.
func (g *grain) render(c *buffer.Capture, env *window.Table) (float64, float64) {
	amp := env.At(g.phase)
	sl, sr := c.ReadLinear(g.pos)

	g.pos = c.Wrap(g.pos + g.ratio)
	g.age++
	g.phase = float64(g.age) / float64(g.duration)
	if g.phase >= 1 {
		g.active = false
	}

	return sl * amp * g.gainL, sr * amp * g.gainR
}

// pool is a fixed array of grain records. Only slots [0,capacity) are
// scanned and rendered.
type pool struct {
	grains   [MaxGrains]grain
	capacity int
}

func clampCapacity(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxGrains {
		return MaxGrains
	}
	return n
}

// free returns the first inactive slot below capacity, or -1 when the pool
// is exhausted.
func (p *pool) free() int {
	for i := 0; i < p.capacity; i++ {
		if !p.grains[i].active {
			return i
		}
	}
	return -1
}

func (p *pool) active() int {
	n := 0
	for i := 0; i < p.capacity; i++ {
		if p.grains[i].active {
			n++
		}
	}
	return n
}

// resize deactivates every grain before changing capacity, so no slot is
// rendered against state from before the resize.
func (p *pool) resize(n int) {
	p.clear()
	p.capacity = clampCapacity(n)
}

func (p *pool) clear() {
	for i := range p.grains {
		p.grains[i] = grain{}
	}
}
