package granular

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-granular/dsp/buffer"
	"github.com/cwbudde/algo-granular/dsp/core"
	"github.com/cwbudde/algo-granular/dsp/effects/reverb"
	"github.com/cwbudde/algo-granular/dsp/window"
)

const (
	// DefaultBufferSize is the capture length in frames, about 5.5 s at 48 kHz.
	DefaultBufferSize = 1 << 18
	// DefaultGrainCount is the initial pool capacity.
	DefaultGrainCount = 32
	defaultSeed       = 1

	maxPitchSemitones = 24.0
)

// Controls are the per-block parameters. They are read once at the start of
// Process and held for the whole call.
type Controls struct {
	Position float64 `json:"position"` // read position as a fraction of the capture buffer, [0,1]
	Size     float64 `json:"size"`     // grain length, 0 = 1 ms, 1 = 1 s (squared mapping)
	Density  float64 `json:"density"`  // trigger rate, 0 = 1 Hz, 1 = 100 Hz (logarithmic)
	Texture  float64 `json:"texture"`  // randomization depth for duration, position and pitch
	Pitch    float64 `json:"pitch"`    // transposition in semitones, [-24,24]
	Feedback float64 `json:"feedback"` // recirculation amount, [0,1]
	Reverb   float64 `json:"reverb"`   // reverb wet amount, [0,1]
	DryWet   float64 `json:"dry_wet"`  // 0 = input only, 1 = grains only
	Spread   float64 `json:"spread"`   // stereo pan randomization, [0,1]
}

// DefaultControls returns a moderate, centered setting.
func DefaultControls() Controls {
	return Controls{
		Position: 0,
		Size:     0.4,
		Density:  0.5,
		Texture:  0.2,
		Pitch:    0,
		Feedback: 0,
		Reverb:   0.3,
		DryWet:   0.5,
		Spread:   0.5,
	}
}

// Clamped returns c with every field limited to its range. NaN becomes 0.
func (c Controls) Clamped() Controls {
	return Controls{
		Position: unit(c.Position),
		Size:     unit(c.Size),
		Density:  unit(c.Density),
		Texture:  unit(c.Texture),
		Pitch:    clampFinite(c.Pitch, -maxPitchSemitones, maxPitchSemitones),
		Feedback: unit(c.Feedback),
		Reverb:   unit(c.Reverb),
		DryWet:   unit(c.DryWet),
		Spread:   unit(c.Spread),
	}
}

func unit(v float64) float64 { return clampFinite(v, 0, 1) }

func clampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return core.Clamp(v, lo, hi)
}

type options struct {
	bufferSize int
	grainCount int
	seed       int64
	envelope   window.Type
}

// Option configures an Engine at construction.
type Option func(*options)

// WithBufferSize sets the capture length in frames. It must be a power of
// two.
func WithBufferSize(frames int) Option {
	return func(o *options) { o.bufferSize = frames }
}

// WithGrainCount sets the initial pool capacity, clamped to [1, MaxGrains].
func WithGrainCount(n int) Option {
	return func(o *options) { o.grainCount = n }
}

// WithSeed sets the random seed used for grain parameters.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithEnvelope selects the grain envelope shape.
func WithEnvelope(t window.Type) Option {
	return func(o *options) { o.envelope = t }
}

// Engine is a stereo granular processor with feedback and reverb.
//
// Process must be called from a single goroutine. Messages may be pushed
// from one other goroutine; Notifications may be read from one other
// goroutine.
type Engine struct {
	sampleRate float64
	blockSize  int
	seed       int64
	mode       Mode

	capture  *buffer.Capture
	envelope *window.Table
	pool     pool
	sched    scheduler
	feedback feedback
	reverb   *reverb.Network

	accL, accR []float64

	messages ControlQueue
	status   StatusQueue
}

// NewEngine creates an engine for cfg. cfg.BlockSize is the largest block
// processed in one pass; Process splits longer host blocks.
func NewEngine(cfg core.ProcessorConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("granular: %w", err)
	}

	o := options{
		bufferSize: DefaultBufferSize,
		grainCount: DefaultGrainCount,
		seed:       defaultSeed,
		envelope:   window.TypeHann,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	capture, err := buffer.NewCapture(o.bufferSize)
	if err != nil {
		return nil, fmt.Errorf("granular: %w", err)
	}

	envelope, err := window.NewTable(o.envelope, window.DefaultTableSize)
	if err != nil {
		return nil, fmt.Errorf("granular: %w", err)
	}

	net, err := reverb.NewNetwork(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("granular: %w", err)
	}

	e := &Engine{
		sampleRate: cfg.SampleRate,
		blockSize:  cfg.BlockSize,
		seed:       o.seed,
		capture:    capture,
		envelope:   envelope,
		sched:      newScheduler(o.seed),
		feedback:   feedback{sampleRate: cfg.SampleRate},
		reverb:     net,
		accL:       make([]float64, cfg.BlockSize),
		accR:       make([]float64, cfg.BlockSize),
	}
	e.pool.capacity = clampCapacity(o.grainCount)

	return e, nil
}

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// BlockSize returns the largest block processed in one pass.
func (e *Engine) BlockSize() int { return e.blockSize }

// Capacity returns the current grain pool capacity.
func (e *Engine) Capacity() int { return e.pool.capacity }

// ActiveGrains returns the number of grains currently playing.
func (e *Engine) ActiveGrains() int { return e.pool.active() }

// Mode returns the selected processing mode.
func (e *Engine) Mode() Mode { return e.mode }

// Frozen reports whether capture is frozen.
func (e *Engine) Frozen() bool { return e.capture.Frozen() }

// Capture exposes the capture buffer. It must only be touched from the
// goroutine that calls Process.
func (e *Engine) Capture() *buffer.Capture { return e.capture }

// Envelope returns the grain envelope table.
func (e *Engine) Envelope() *window.Table { return e.envelope }

// Messages returns the queue for freeze, resize and mode changes.
func (e *Engine) Messages() *ControlQueue { return &e.messages }

// Notifications returns the queue Process publishes a Status to per call.
func (e *Engine) Notifications() *StatusQueue { return &e.status }

// SetRandomSeed reseeds grain randomization and resets the engine.
func (e *Engine) SetRandomSeed(seed int64) {
	e.seed = seed
	e.Reset()
}

// Reset clears capture, grains, filters and reverb, unfreezes and rewinds
// the random sequence. Capacity and mode are kept; queued messages stay
// queued.
func (e *Engine) Reset() {
	e.capture.Reset()
	e.pool.clear()
	e.sched.reset(e.seed)
	e.feedback.reset()
	e.reverb.Reset()
}

// Process renders one stereo block. Pending messages are applied first.
// Slices of different lengths process the shortest; out may alias in.
func (e *Engine) Process(inL, inR, outL, outR []float64, c Controls) {
	e.applyMessages()

	c = c.Clamped()
	e.reverb.SetAmount(c.Reverb)

	norm := 1 / math.Sqrt(float64(e.pool.capacity))
	feedbackOn := !e.capture.Frozen() && c.Feedback >= FeedbackThreshold
	if feedbackOn {
		e.feedback.configure(c.Feedback, norm)
	}

	frames := core.MinLen(inL, inR, outL, outR)

	var peakL, peakR float64
	for off := 0; off < frames; off += e.blockSize {
		end := min(off+e.blockSize, frames)
		e.processBlock(inL[off:end], inR[off:end], outL[off:end], outR[off:end], c, norm, feedbackOn)

		out := buffer.Stereo{L: outL[off:end], R: outR[off:end]}
		l, r := out.Peak()
		peakL = math.Max(peakL, l)
		peakR = math.Max(peakR, r)
	}

	e.status.publish(Status{
		Frozen:       e.capture.Frozen(),
		WriteHead:    e.capture.WriteHead(),
		ActiveGrains: e.pool.active(),
		Capacity:     e.pool.capacity,
		Mode:         e.mode,
		PeakL:        peakL,
		PeakR:        peakR,
	})
}

func (e *Engine) processBlock(inL, inR, outL, outR []float64, c Controls, norm float64, feedbackOn bool) {
	n := len(inL)
	accL, accR := e.accL[:n], e.accR[:n]

	head := e.capture.WriteHead()
	e.capture.WriteBlock(inL, inR)

	increment := TriggerRate(c.Density) / e.sampleRate
	for i := 0; i < n; i++ {
		if e.sched.tick(increment) {
			e.trigger(c)
		}

		var l, r float64
		for j := 0; j < e.pool.capacity; j++ {
			g := &e.pool.grains[j]
			if !g.active {
				continue
			}

			gl, gr := g.render(e.capture, e.envelope)
			l += gl
			r += gr
		}
		accL[i], accR[i] = l, r
	}

	if feedbackOn {
		e.feedback.apply(e.capture, head, accL, accR)
	}

	dry := 1 - c.DryWet
	wet := norm * c.DryWet
	for i := 0; i < n; i++ {
		outL[i] = inL[i]*dry + accL[i]*wet
		outR[i] = inR[i]*dry + accR[i]*wet
	}

	e.reverb.Process(outL, outR)
}

// trigger spawns a grain into the first free slot. An exhausted pool drops
// the trigger without drawing random values or touching existing grains.
func (e *Engine) trigger(c Controls) bool {
	slot := e.pool.free()
	if slot < 0 {
		return false
	}

	e.pool.grains[slot] = e.sched.newGrain(c, e.sampleRate, e.capture)
	return true
}

func (e *Engine) applyMessages() {
	for {
		m, ok := e.messages.Pop()
		if !ok {
			return
		}

		switch m.Kind {
		case MessageFreeze:
			e.capture.SetFrozen(m.Value != 0)
		case MessageSetGrainCount:
			e.pool.resize(m.Value)
		case MessageSetMode:
			if m.Value >= 0 && m.Value < len(modeNames) {
				e.mode = Mode(m.Value)
			}
		}
	}
}
