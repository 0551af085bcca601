package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-granular/dsp/buffer"
	"github.com/cwbudde/algo-granular/dsp/dither"
)

const recordBlocks = 64

var errBitDepth = errors.New("bit depth must be 16 or 24")

// recorder writes the live output to a PCM WAV file. The audio goroutine
// quantizes each block into a buffer taken from a fixed free list and hands
// it to a writer goroutine; blocks are dropped when no buffer is free.
type recorder struct {
	path  string
	f     *os.File
	enc   *wav.Encoder
	quant *dither.Quantizer

	format   *audio.Format
	bitDepth int

	mu      sync.Mutex
	closed  bool
	free    chan []int
	blocks  chan []int
	done    chan error
	frames  atomic.Int64
	dropped atomic.Uint64
}

func newRecorder(path string, sampleRate, blockSize, bitDepth int, seed uint64) (*recorder, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("%w: %d", errBitDepth, bitDepth)
	}

	quant, err := dither.NewQuantizer(bitDepth, dither.WithSeed(seed))
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	r := &recorder{
		path:     path,
		f:        f,
		enc:      wav.NewEncoder(f, sampleRate, bitDepth, 2, 1),
		quant:    quant,
		format:   &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		bitDepth: bitDepth,
		free:     make(chan []int, recordBlocks),
		blocks:   make(chan []int, recordBlocks),
		done:     make(chan error, 1),
	}
	for range recordBlocks {
		r.free <- make([]int, 2*blockSize)
	}

	go r.write()
	return r, nil
}

// observe runs on the audio goroutine and never blocks.
func (r *recorder) observe(out *buffer.Stereo) {
	if !r.mu.TryLock() {
		r.dropped.Add(1)
		return
	}
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	select {
	case data := <-r.free:
		n := r.quant.Interleave(data[:cap(data)], out.L, out.R)
		r.blocks <- data[:2*n]
	default:
		r.dropped.Add(1)
	}
}

func (r *recorder) write() {
	var err error
	buf := &audio.IntBuffer{Format: r.format, SourceBitDepth: r.bitDepth}
	for data := range r.blocks {
		if err == nil {
			buf.Data = data
			if err = r.enc.Write(buf); err == nil {
				r.frames.Add(int64(len(data) / 2))
			}
		}
		r.free <- data[:cap(data)]
	}
	r.done <- err
}

// Dropped returns the number of blocks that were not recorded.
func (r *recorder) Dropped() uint64 { return r.dropped.Load() }

// Frames returns the number of frames written so far.
func (r *recorder) Frames() int64 { return r.frames.Load() }

// Close flushes pending blocks and finalizes the WAV header.
func (r *recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.blocks)
	r.mu.Unlock()

	err := <-r.done
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("recording %s: %w", r.path, err)
	}
	return nil
}
