package granular

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-granular/dsp/buffer"
	"github.com/cwbudde/algo-granular/dsp/core"
)

const (
	minTriggerRate = 1.0
	maxTriggerRate = 100.0

	minGrainSeconds = 0.001
	maxGrainSeconds = 1.0

	durationJitter = 0.2
	positionJitter = 0.1
	pitchJitter    = 2.0
)

// TriggerRate maps density in [0,1] logarithmically onto 1..100 grains per
// second.
func TriggerRate(density float64) float64 {
	return minTriggerRate * math.Pow(maxTriggerRate/minTriggerRate, core.Clamp(density, 0, 1))
}

// GrainDuration returns the nominal grain length in samples for size in
// [0,1], before texture jitter.
func GrainDuration(size, sampleRate float64) int {
	size = core.Clamp(size, 0, 1)
	return durationSamples(core.Lerp(minGrainSeconds, maxGrainSeconds, size*size), sampleRate)
}

func durationSamples(seconds, sampleRate float64) int {
	n := int(math.Round(seconds * sampleRate))
	if n < 1 {
		return 1
	}
	return n
}

// scheduler is the trigger clock. The accumulator starts at 1 so the first
// frame after construction or reset fires.
type scheduler struct {
	phase float64
	rng   *rand.Rand
}

func newScheduler(seed int64) scheduler {
	return scheduler{phase: 1, rng: rand.New(rand.NewSource(seed))}
}

func (s *scheduler) reset(seed int64) {
	s.phase = 1
	s.rng.Seed(seed)
}

// tick advances the accumulator by increment and reports whether a trigger
// fired on this frame.
func (s *scheduler) tick(increment float64) bool {
	s.phase += increment
	if s.phase >= 1 {
		s.phase -= 1
		return true
	}
	return false
}

// bipolar returns a uniform value in [-span, span).
func (s *scheduler) bipolar(span float64) float64 {
	return (s.rng.Float64()*2 - 1) * span
}

// newGrain draws the randomized parameters of a grain from c. Four random
// values are consumed per grain regardless of texture and spread.
func (s *scheduler) newGrain(c Controls, sampleRate float64, capture *buffer.Capture) grain {
	size := float64(capture.Size())
	texture := c.Texture

	seconds := core.Lerp(minGrainSeconds, maxGrainSeconds, c.Size*c.Size)
	seconds *= 1 + s.bipolar(durationJitter)*texture

	pos := c.Position*size + s.bipolar(positionJitter)*texture*size
	ratio := core.SemitonesToRatio(c.Pitch + s.bipolar(pitchJitter)*texture)
	angle := (s.bipolar(c.Spread) + 1) * math.Pi / 4

	return grain{
		active:   true,
		pos:      capture.Wrap(pos),
		ratio:    ratio,
		gainL:    math.Cos(angle),
		gainR:    math.Sin(angle),
		duration: durationSamples(seconds, sampleRate),
	}
}
