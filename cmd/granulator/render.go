package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-granular/dsp/buffer"
	"github.com/cwbudde/algo-granular/dsp/effects/granular"
	"github.com/cwbudde/algo-granular/dsp/spectrum"
	"github.com/cwbudde/algo-granular/dsp/window"
	"github.com/cwbudde/algo-granular/stats/frequency"
	timestats "github.com/cwbudde/algo-granular/stats/time"
)

const monitorSize = 2048

// renderer pulls one block at a time from the source through the engine.
// next must only be called from the audio goroutine; controls may be
// replaced from any goroutine.
type renderer struct {
	engine   *granular.Engine
	src      source
	controls atomic.Pointer[granular.Controls]
	in, out  *buffer.Stereo
	mon      *monitor
	rec      atomic.Pointer[recorder]
}

func newRenderer(e *granular.Engine, src source, c granular.Controls, mon *monitor) *renderer {
	r := &renderer{
		engine: e,
		src:    src,
		in:     buffer.NewStereo(e.BlockSize()),
		out:    buffer.NewStereo(e.BlockSize()),
		mon:    mon,
	}
	r.controls.Store(&c)
	return r
}

// Controls returns the current control snapshot.
func (r *renderer) Controls() granular.Controls { return *r.controls.Load() }

// SetControls replaces the controls used from the next block on.
func (r *renderer) SetControls(c granular.Controls) {
	c = c.Clamped()
	r.controls.Store(&c)
}

func (r *renderer) next() *buffer.Stereo {
	r.src.Read(r.in.L, r.in.R)
	r.engine.Process(r.in.L, r.in.R, r.out.L, r.out.R, *r.controls.Load())
	if r.mon != nil {
		r.mon.observe(r.out)
	}
	if rec := r.rec.Load(); rec != nil {
		rec.observe(r.out)
	}
	return r.out
}

// stream adapts a renderer to the io.Reader pulled by the audio device,
// producing interleaved float32 little-endian frames.
type stream struct {
	r       *renderer
	samples []float32
	bytes   []byte
	pending []byte
}

func newStream(r *renderer) *stream {
	n := r.out.Len()
	return &stream{
		r:       r,
		samples: make([]float32, 2*n),
		bytes:   make([]byte, 8*n),
	}
}

func (s *stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			s.fill()
		}
		c := copy(p[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	return n, nil
}

func (s *stream) fill() {
	frames := s.r.next().Interleave(s.samples)
	for i, v := range s.samples[:2*frames] {
		binary.LittleEndian.PutUint32(s.bytes[4*i:], math.Float32bits(v))
	}
	s.pending = s.bytes[:8*frames]
}

// monitor meters the output for status logging. observe runs on the audio
// goroutine and skips a block rather than wait for a reader.
type monitor struct {
	mu         sync.Mutex
	analyzer   *spectrum.Analyzer
	meter      timestats.Meter
	mono       []float64
	sampleRate float64
	spectral   frequency.Stats
}

func newMonitor(sampleRate float64, blockSize int) (*monitor, error) {
	a, err := spectrum.NewAnalyzer(monitorSize, 0.5, window.TypeHann)
	if err != nil {
		return nil, err
	}
	return &monitor{
		analyzer:   a,
		mono:       make([]float64, blockSize),
		sampleRate: sampleRate,
	}, nil
}

func (m *monitor) observe(out *buffer.Stereo) {
	if !m.mu.TryLock() {
		return
	}
	defer m.mu.Unlock()

	n := min(out.Len(), len(m.mono))
	mono := m.mono[:n]
	for i := range mono {
		mono[i] = 0.5 * (out.L[i] + out.R[i])
	}

	m.meter.Update(mono)
	if m.analyzer.Write(mono) > 0 {
		m.spectral = frequency.Calculate(m.analyzer.Amplitude(), m.sampleRate)
	}
}

// snapshot returns the level since the previous snapshot and the latest
// spectral shape.
func (m *monitor) snapshot() (timestats.Stats, frequency.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	level := m.meter.Result()
	m.meter.Reset()
	return level, m.spectral
}

func logStatus(logger *slog.Logger, e *granular.Engine, m *monitor) {
	if st, ok := e.Notifications().Latest(); ok {
		logger.Debug("status",
			"mode", st.Mode,
			"frozen", st.Frozen,
			"grains", st.ActiveGrains,
			"capacity", st.Capacity,
			"head", st.WriteHead,
			"peak_l", st.PeakL,
			"peak_r", st.PeakR,
			"dropped", e.Notifications().Dropped(),
		)
	}

	if m == nil {
		return
	}
	level, spec := m.snapshot()
	logger.Debug("output",
		"rms_db", fmt.Sprintf("%.1f", level.RMS_dB),
		"peak_db", fmt.Sprintf("%.1f", level.Peak_dB),
		"centroid_hz", fmt.Sprintf("%.0f", spec.Centroid),
		"rolloff_hz", fmt.Sprintf("%.0f", spec.Rolloff),
		"flatness", fmt.Sprintf("%.3f", spec.Flatness),
	)
}
