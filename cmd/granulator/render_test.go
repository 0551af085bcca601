package main

import (
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/cwbudde/algo-granular/dsp/buffer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSettings() Settings {
	s := DefaultSettings()
	s.BlockSize = 64
	s.BufferSize = 1 << 12
	return s
}

func newTestRenderer(t *testing.T, s Settings, withMonitor bool) *renderer {
	t.Helper()

	e, err := newEngine(s)
	if err != nil {
		t.Fatal(err)
	}
	src, _, err := newSource(s)
	if err != nil {
		t.Fatal(err)
	}

	var mon *monitor
	if withMonitor {
		if mon, err = newMonitor(s.SampleRate, s.BlockSize); err != nil {
			t.Fatal(err)
		}
	}
	return newRenderer(e, src, s.Controls, mon)
}

func TestStreamMatchesRenderer(t *testing.T) {
	s := testSettings()
	a := newTestRenderer(t, s, false)
	b := newTestRenderer(t, s, false)

	const blocks = 3
	frames := blocks * s.BlockSize
	raw := make([]byte, 8*frames)

	st := newStream(a)
	for off := 0; off < len(raw); {
		end := min(off+100, len(raw))
		n, err := st.Read(raw[off:end])
		if err != nil || n != end-off {
			t.Fatalf("Read = %d, %v", n, err)
		}
		off = end
	}

	for blk := 0; blk < blocks; blk++ {
		out := b.next()
		for i := 0; i < out.Len(); i++ {
			frame := blk*s.BlockSize + i
			l := math.Float32frombits(binary.LittleEndian.Uint32(raw[8*frame:]))
			r := math.Float32frombits(binary.LittleEndian.Uint32(raw[8*frame+4:]))
			if l != float32(out.L[i]) || r != float32(out.R[i]) {
				t.Fatalf("frame %d = (%g, %g), want (%g, %g)", frame, l, r, out.L[i], out.R[i])
			}
		}
	}
}

func TestSetControlsClamps(t *testing.T) {
	r := newTestRenderer(t, testSettings(), false)

	c := r.Controls()
	c.DryWet = 3
	c.Pitch = -100
	r.SetControls(c)

	got := r.Controls()
	if got.DryWet != 1 || got.Pitch != -24 {
		t.Fatalf("controls not clamped: %+v", got)
	}
}

func TestMonitorSnapshot(t *testing.T) {
	m, err := newMonitor(48000, 256)
	if err != nil {
		t.Fatal(err)
	}

	// Bin 43 of a 2048-point frame at 48 kHz.
	freq := 43 * 48000.0 / monitorSize
	block := buffer.NewStereo(256)
	phase := 0
	for range monitorSize / 256 {
		for i := range block.L {
			v := 0.5 * math.Sin(2*math.Pi*freq*float64(phase)/48000)
			block.L[i], block.R[i] = v, v
			phase++
		}
		m.observe(block)
	}

	level, spec := m.snapshot()
	if level.Length != monitorSize {
		t.Fatalf("metered %d samples, want %d", level.Length, monitorSize)
	}
	if math.Abs(level.RMS-0.5/math.Sqrt2) > 1e-3 {
		t.Fatalf("rms = %g, want %g", level.RMS, 0.5/math.Sqrt2)
	}
	if spec.PeakBin != 43 {
		t.Fatalf("peak bin = %d, want 43", spec.PeakBin)
	}
	if math.Abs(spec.PeakHz-freq) > 1e-9 {
		t.Fatalf("peak = %g Hz, want %g", spec.PeakHz, freq)
	}

	if level, _ = m.snapshot(); level.Length != 0 {
		t.Fatalf("meter not reset after snapshot: %d samples", level.Length)
	}
}
