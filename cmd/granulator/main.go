// Command granulator runs the granular engine on the default audio device.
//
// Usage:
//
//	granulator [flags]
//
// The input is a sine tone, white noise or a looping WAV file. While
// playing, single keys freeze the capture buffer, resize the grain pool,
// switch modes and nudge the controls. Settings can be stored in a JSON file
// passed with -config; flags given on the command line override it. The
// output can be recorded to a WAV file while playing.
//
// Examples:
//
//	granulator -source loop.wav -size 0.6 -density 0.7
//	granulator -config settings.json -log-level debug
//	granulator -source noise -record take.wav -bit-depth 16
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/algo-granular/dsp/core"
	"github.com/cwbudde/algo-granular/dsp/effects/granular"
	"github.com/cwbudde/algo-granular/dsp/window"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "granulator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("granulator", flag.ContinueOnError)
	f := registerFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: granulator [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Real-time granular processor with feedback and reverb.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\n%s\n", keyHelp)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	settings := DefaultSettings()
	if f.config != "" {
		var err error
		if settings, err = LoadSettings(f.config, settings); err != nil {
			return err
		}
	}
	f.apply(fs, &settings)

	level, err := ResolveLogLevel(f.logLevel)
	if err != nil {
		return err
	}
	out := &rawWriter{w: os.Stderr}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	src, srcRate, err := newSource(settings)
	if err != nil {
		return err
	}
	if srcRate != settings.SampleRate {
		logger.Warn("source sample rate differs, playing without conversion",
			"source", srcRate, "engine", settings.SampleRate)
	}

	engine, err := newEngine(settings)
	if err != nil {
		return err
	}

	mon, err := newMonitor(settings.SampleRate, settings.BlockSize)
	if err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	r := newRenderer(engine, src, settings.Controls, mon)

	logger.Info("engine ready",
		"sample_rate", settings.SampleRate,
		"block", settings.BlockSize,
		"buffer", engine.Capture().Size(),
		"grains", engine.Capacity(),
		"envelope", engine.Envelope().Type(),
		"source", settings.Source,
	)

	if f.record != "" {
		rec, err := newRecorder(f.record, int(math.Round(settings.SampleRate)), settings.BlockSize, f.bitDepth, uint64(settings.Seed))
		if err != nil {
			return err
		}
		r.rec.Store(rec)
		defer func() {
			r.rec.Store(nil)
			if err := rec.Close(); err != nil {
				logger.Error("recording failed", "err", err)
				return
			}
			logger.Info("recorded", "path", f.record, "frames", rec.Frames(), "dropped_blocks", rec.Dropped())
		}()
	}

	return play(r, settings, f, out, logger)
}

func newEngine(s Settings) (*granular.Engine, error) {
	env, err := window.ParseType(s.Envelope)
	if err != nil {
		return nil, err
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(s.SampleRate),
		core.WithBlockSize(s.BlockSize),
	)
	e, err := granular.NewEngine(cfg,
		granular.WithBufferSize(s.BufferSize),
		granular.WithGrainCount(s.GrainCount),
		granular.WithSeed(s.Seed),
		granular.WithEnvelope(env),
	)
	if err != nil {
		return nil, err
	}
	e.Capture().SetFrozen(s.Frozen)
	return e, nil
}

func play(r *renderer, s Settings, f *cliFlags, out *rawWriter, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := startPlayer(int(math.Round(s.SampleRate)), f.latency, newStream(r))
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("closing audio device", "err", err)
		}
	}()

	restore, raw, err := enableRawMode()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer restore()

	quit := make(chan error, 1)
	if raw {
		out.raw.Store(true)
		defer out.raw.Store(false)

		logger.Info(keyHelp)
		kb := newKeyboard(r, s, logger)
		go func() { quit <- kb.run(os.Stdin) }()
	} else {
		logger.Info("stdin is not a terminal, keys disabled; interrupt to stop")
	}

	interval := f.interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-quit:
			return err
		case <-ticker.C:
			if err := p.Err(); err != nil {
				return fmt.Errorf("audio device: %w", err)
			}
			logStatus(logger, r.engine, r.mon)
		}
	}
}
