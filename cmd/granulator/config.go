package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/algo-granular/dsp/effects/granular"
	"github.com/cwbudde/algo-granular/dsp/window"
)

var (
	errSampleRate = errors.New("sample rate must be in [8000, 192000]")
	errBlockSize  = errors.New("block size must be in [16, 8192]")
	errBufferSize = errors.New("buffer size must be > block size")
	errGrainCount = errors.New("grain count must be in [1, 64]")
	errToneHz     = errors.New("tone frequency must be in (0, sample rate/2)")
	errGain       = errors.New("input gain must be in [0, 4]")
	errSource     = errors.New("source must not be empty")
)

// Settings is the persisted host configuration. Fields omitted from a
// settings file keep their defaults.
type Settings struct {
	SampleRate float64           `json:"sample_rate"`
	BlockSize  int               `json:"block_size"`
	BufferSize int               `json:"buffer_size"`
	GrainCount int               `json:"grain_count"`
	Seed       int64             `json:"seed"`
	Envelope   string            `json:"envelope"`
	Source     string            `json:"source"` // "tone", "noise" or a WAV path
	ToneHz     float64           `json:"tone_hz"`
	Gain       float64           `json:"gain"`
	Frozen     bool              `json:"frozen"`
	Controls   granular.Controls `json:"controls"`
}

// DefaultSettings returns the settings used when no file or flag is given.
func DefaultSettings() Settings {
	return Settings{
		SampleRate: 48000,
		BlockSize:  256,
		BufferSize: granular.DefaultBufferSize,
		GrainCount: granular.DefaultGrainCount,
		Seed:       1,
		Envelope:   window.TypeHann.String(),
		Source:     "tone",
		ToneHz:     220,
		Gain:       0.5,
		Controls:   granular.DefaultControls(),
	}
}

// LoadSettings reads a JSON settings file on top of base. Unknown keys are
// rejected so that typos do not pass silently.
func LoadSettings(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read settings: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	s := base
	if err := dec.Decode(&s); err != nil {
		return base, fmt.Errorf("parse settings %s: %w", path, err)
	}

	return s, nil
}

// Validate checks ranges that the engine would otherwise reject or clamp.
func (s Settings) Validate() error {
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		return fmt.Errorf("%w: %g", errSampleRate, s.SampleRate)
	}
	if s.BlockSize < 16 || s.BlockSize > 8192 {
		return fmt.Errorf("%w: %d", errBlockSize, s.BlockSize)
	}
	if s.BufferSize <= s.BlockSize {
		return fmt.Errorf("%w: %d", errBufferSize, s.BufferSize)
	}
	if s.GrainCount < 1 || s.GrainCount > granular.MaxGrains {
		return fmt.Errorf("%w: %d", errGrainCount, s.GrainCount)
	}
	if s.Source == "" {
		return errSource
	}
	if s.Source == "tone" && (s.ToneHz <= 0 || s.ToneHz >= s.SampleRate/2) {
		return fmt.Errorf("%w: %g", errToneHz, s.ToneHz)
	}
	if s.Gain < 0 || s.Gain > 4 {
		return fmt.Errorf("%w: %g", errGain, s.Gain)
	}
	if _, err := window.ParseType(s.Envelope); err != nil {
		return fmt.Errorf("envelope: %w", err)
	}

	return nil
}

// cliFlags holds the command line. Settings fields set on the command line
// override the settings file.
type cliFlags struct {
	config   string
	logLevel string
	record   string
	bitDepth int
	latency  time.Duration
	interval time.Duration

	sampleRate float64
	blockSize  int
	bufferSize int
	grainCount int
	seed       int64
	envelope   string
	source     string
	toneHz     float64
	gain       float64
	frozen     bool

	position float64
	size     float64
	density  float64
	texture  float64
	pitch    float64
	feedback float64
	reverb   float64
	dryWet   float64
	spread   float64
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	d := DefaultSettings()
	f := &cliFlags{}

	fs.StringVar(&f.config, "config", "", "JSON settings file")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	fs.StringVar(&f.record, "record", "", "also record the output to this WAV file")
	fs.IntVar(&f.bitDepth, "bit-depth", 24, "recording bit depth: 16 or 24")
	fs.DurationVar(&f.latency, "latency", 50*time.Millisecond, "audio device buffer length")
	fs.DurationVar(&f.interval, "status-interval", time.Second, "status log interval")

	fs.Float64Var(&f.sampleRate, "sample-rate", d.SampleRate, "sample rate in Hz")
	fs.IntVar(&f.blockSize, "block-size", d.BlockSize, "processing block size in frames")
	fs.IntVar(&f.bufferSize, "buffer-size", d.BufferSize, "capture buffer length in frames")
	fs.IntVar(&f.grainCount, "grains", d.GrainCount, "grain pool capacity")
	fs.Int64Var(&f.seed, "seed", d.Seed, "random seed")
	fs.StringVar(&f.envelope, "envelope", d.Envelope, "grain envelope: hann|blackman|tukey|triangle|welch|cosine")
	fs.StringVar(&f.source, "source", d.Source, "input: tone, noise or a WAV file path")
	fs.Float64Var(&f.toneHz, "tone-hz", d.ToneHz, "tone source frequency")
	fs.Float64Var(&f.gain, "gain", d.Gain, "input gain")
	fs.BoolVar(&f.frozen, "freeze", d.Frozen, "start with the capture buffer frozen")

	c := d.Controls
	fs.Float64Var(&f.position, "position", c.Position, "read position [0,1]")
	fs.Float64Var(&f.size, "size", c.Size, "grain size [0,1]")
	fs.Float64Var(&f.density, "density", c.Density, "grain density [0,1]")
	fs.Float64Var(&f.texture, "texture", c.Texture, "randomization [0,1]")
	fs.Float64Var(&f.pitch, "pitch", c.Pitch, "transposition in semitones [-24,24]")
	fs.Float64Var(&f.feedback, "feedback", c.Feedback, "feedback amount [0,1]")
	fs.Float64Var(&f.reverb, "reverb", c.Reverb, "reverb amount [0,1]")
	fs.Float64Var(&f.dryWet, "dry-wet", c.DryWet, "dry/wet balance [0,1]")
	fs.Float64Var(&f.spread, "spread", c.Spread, "stereo spread [0,1]")

	return f
}

// apply copies every flag that was set explicitly into s.
func (f *cliFlags) apply(fs *flag.FlagSet, s *Settings) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "sample-rate":
			s.SampleRate = f.sampleRate
		case "block-size":
			s.BlockSize = f.blockSize
		case "buffer-size":
			s.BufferSize = f.bufferSize
		case "grains":
			s.GrainCount = f.grainCount
		case "seed":
			s.Seed = f.seed
		case "envelope":
			s.Envelope = f.envelope
		case "source":
			s.Source = f.source
		case "tone-hz":
			s.ToneHz = f.toneHz
		case "gain":
			s.Gain = f.gain
		case "freeze":
			s.Frozen = f.frozen
		case "position":
			s.Controls.Position = f.position
		case "size":
			s.Controls.Size = f.size
		case "density":
			s.Controls.Density = f.density
		case "texture":
			s.Controls.Texture = f.texture
		case "pitch":
			s.Controls.Pitch = f.pitch
		case "feedback":
			s.Controls.Feedback = f.feedback
		case "reverb":
			s.Controls.Reverb = f.reverb
		case "dry-wet":
			s.Controls.DryWet = f.dryWet
		case "spread":
			s.Controls.Spread = f.spread
		}
	})
}

// ResolveLogLevel maps a level name to its slog level.
func ResolveLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}
