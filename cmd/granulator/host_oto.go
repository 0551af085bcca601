//go:build !headless

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// player streams stereo float32 frames to the default audio device.
type player struct {
	ctx    *oto.Context
	player *oto.Player
}

func startPlayer(sampleRate int, latency time.Duration, r io.Reader) (*player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio device: %w", err)
	}
	<-ready

	p := &player{ctx: ctx, player: ctx.NewPlayer(r)}
	p.player.Play()
	return p, nil
}

// Err returns the first error reported by the device.
func (p *player) Err() error { return p.player.Err() }

func (p *player) Close() error {
	p.player.Pause()
	return p.player.Close()
}
