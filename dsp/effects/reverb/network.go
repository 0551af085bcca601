package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-granular/dsp/core"
	"github.com/cwbudde/algo-granular/dsp/delay"
	"github.com/cwbudde/algo-granular/dsp/filter/onepole"
)

const (
	referenceSampleRate = 32000.0

	diffusionGain    = 0.625
	decayCoefficient = 0.7
	reverbTimeScale  = 0.85
	wetGain          = 0.5

	// BypassThreshold is the amount below which Process leaves its input
	// untouched.
	BypassThreshold = 1e-3
)

var diffuserLengths = [4]int{113, 162, 241, 399}

type tankLayout struct {
	apA, apB     int
	signA, signB delay.Sign
	length       int
}

var tankLayouts = [2]tankLayout{
	{apA: 1653, signA: delay.SignNegative, apB: 2038, signB: delay.SignPositive, length: 3411},
	{apA: 1913, signA: delay.SignPositive, apB: 1663, signB: delay.SignNegative, length: 4782},
}

type tank struct {
	decay    onepole.Filter
	apA, apB *delay.Line
	signA    delay.Sign
	signB    delay.Sign
	line     *delay.Line
}

// process runs one sample through the tank and returns the delay output.
func (t *tank) process(x float64) float64 {
	v := t.decay.Lowpass(x)
	v = t.apA.Allpass(v, diffusionGain, t.signA)
	v = t.apB.Allpass(v, diffusionGain, t.signB)

	return t.line.Push(v)
}

func (t *tank) reset() {
	t.decay.Reset()
	t.apA.Reset()
	t.apB.Reset()
	t.line.Reset()
}

// Network is a stereo reverb built from four input diffusers and two
// cross-coupled tanks. The left output takes tank 1, the right tank 2.
//
// Network is real-time safe and not thread-safe.
type Network struct {
	sampleRate float64
	amount     float64
	krt        float64

	diffusers [len(diffuserLengths)]*delay.Line
	tanks     [2]tank
}

// NewNetwork creates a reverb network for sampleRate with amount 0.
func NewNetwork(sampleRate float64) (*Network, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	n := &Network{sampleRate: sampleRate}

	for i, length := range diffuserLengths {
		line, err := scaledLine(length, sampleRate)
		if err != nil {
			return nil, err
		}

		n.diffusers[i] = line
	}

	for i, layout := range tankLayouts {
		t := &n.tanks[i]
		t.signA = layout.signA
		t.signB = layout.signB
		t.decay.SetCoefficient(decayCoefficient)

		var err error
		if t.apA, err = scaledLine(layout.apA, sampleRate); err != nil {
			return nil, err
		}
		if t.apB, err = scaledLine(layout.apB, sampleRate); err != nil {
			return nil, err
		}
		if t.line, err = scaledLine(layout.length, sampleRate); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func scaledLine(length int, sampleRate float64) (*delay.Line, error) {
	return delay.New(delay.ScaledLength(length, referenceSampleRate, sampleRate))
}

// SampleRate returns the sample rate the delay lengths were derived from.
func (n *Network) SampleRate() float64 { return n.sampleRate }

// SetAmount sets the wet amount, clamped to [0,1]. The tank feedback follows
// as amount*0.85.
func (n *Network) SetAmount(amount float64) {
	n.amount = core.Clamp(amount, 0, 1)
	n.krt = n.amount * reverbTimeScale
}

// Amount returns the wet amount.
func (n *Network) Amount() float64 { return n.amount }

// Feedback returns the cross-coupling gain between the tanks.
func (n *Network) Feedback() float64 { return n.krt }

// Bypassed reports whether Process currently passes its input through.
func (n *Network) Bypassed() bool { return n.amount < BypassThreshold }

// TankLengths returns the delay lengths of tank 1 and tank 2 in samples.
func (n *Network) TankLengths() (int, int) {
	return n.tanks[0].line.Len(), n.tanks[1].line.Len()
}

// ProcessFrame processes one stereo frame and returns the blended output. It
// runs the network regardless of the bypass threshold.
func (n *Network) ProcessFrame(l, r float64) (float64, float64) {
	t1, t2 := &n.tanks[0], &n.tanks[1]
	tail1 := t1.line.Tail()
	tail2 := t2.line.Tail()

	x := 0.5 * (l + r)
	for _, ap := range n.diffusers {
		x = ap.Allpass(x, diffusionGain, delay.SignNegative)
	}

	wetL := wetGain * t1.process(x+n.krt*tail2)
	wetR := wetGain * t2.process(x+n.krt*tail1)

	dry := 1 - n.amount

	return l*dry + wetL*n.amount, r*dry + wetR*n.amount
}

// Process runs the network in place over a stereo block. Lengths that differ
// process the shorter one. Below BypassThreshold the block is left untouched
// and no state advances.
func (n *Network) Process(left, right []float64) {
	if n.Bypassed() {
		return
	}

	frames := core.MinLen(left, right)
	for i := 0; i < frames; i++ {
		left[i], right[i] = n.ProcessFrame(left[i], right[i])
	}
}

// Reset clears all delay lines and filter state. The amount is kept.
func (n *Network) Reset() {
	for _, ap := range n.diffusers {
		ap.Reset()
	}

	for i := range n.tanks {
		n.tanks[i].reset()
	}
}
