package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/go-audio/wav"
)

var errInvalidWAV = errors.New("not a valid WAV file")

// source produces the stereo input fed to the engine.
type source interface {
	Read(l, r []float64)
}

type toneSource struct {
	phase, inc, gain float64
}

func newToneSource(freq, sampleRate, gain float64) *toneSource {
	return &toneSource{inc: freq / sampleRate, gain: gain}
}

func (s *toneSource) Read(l, r []float64) {
	n := min(len(l), len(r))
	for i := 0; i < n; i++ {
		v := s.gain * math.Sin(2*math.Pi*s.phase)
		l[i], r[i] = v, v
		s.phase += s.inc
		if s.phase >= 1 {
			s.phase--
		}
	}
}

type noiseSource struct {
	rng  *rand.Rand
	gain float64
}

func newNoiseSource(seed int64, gain float64) *noiseSource {
	return &noiseSource{rng: rand.New(rand.NewSource(seed)), gain: gain}
}

func (s *noiseSource) Read(l, r []float64) {
	n := min(len(l), len(r))
	for i := 0; i < n; i++ {
		l[i] = s.gain * (2*s.rng.Float64() - 1)
		r[i] = s.gain * (2*s.rng.Float64() - 1)
	}
}

// loopSource plays a decoded file in a loop.
type loopSource struct {
	l, r       []float64
	pos        int
	gain       float64
	sampleRate float64
}

func (s *loopSource) Read(l, r []float64) {
	n := min(len(l), len(r))
	for i := 0; i < n; i++ {
		l[i] = s.gain * s.l[s.pos]
		r[i] = s.gain * s.r[s.pos]
		s.pos++
		if s.pos == len(s.l) {
			s.pos = 0
		}
	}
}

// loadWAV decodes a PCM WAV file into a looping source. Mono files are
// duplicated to both channels; channels past the second are ignored.
func loadWAV(path string, gain float64) (*loopSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, errInvalidWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%s: %w: %d channels", path, errInvalidWAV, channels)
	}

	frames := len(buf.Data) / channels
	if frames == 0 {
		return nil, fmt.Errorf("%s: %w: no samples", path, errInvalidWAV)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(dec.BitDepth)
	}
	if depth < 8 || depth > 32 {
		return nil, fmt.Errorf("%s: %w: %d bit", path, errInvalidWAV, depth)
	}
	scale := 1 / float64(int64(1)<<(depth-1))

	s := &loopSource{
		l:          make([]float64, frames),
		r:          make([]float64, frames),
		gain:       gain,
		sampleRate: float64(buf.Format.SampleRate),
	}
	for i := 0; i < frames; i++ {
		s.l[i] = float64(buf.Data[i*channels]) * scale
		if channels > 1 {
			s.r[i] = float64(buf.Data[i*channels+1]) * scale
		} else {
			s.r[i] = s.l[i]
		}
	}

	return s, nil
}

// newSource builds the input named by s.Source.
func newSource(s Settings) (source, float64, error) {
	switch s.Source {
	case "tone":
		return newToneSource(s.ToneHz, s.SampleRate, s.Gain), s.SampleRate, nil
	case "noise":
		return newNoiseSource(s.Seed, s.Gain), s.SampleRate, nil
	default:
		src, err := loadWAV(s.Source, s.Gain)
		if err != nil {
			return nil, 0, err
		}
		return src, src.sampleRate, nil
	}
}
