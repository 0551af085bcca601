//go:build headless

package main

import (
	"errors"
	"io"
	"time"
)

var errNoAudio = errors.New("built without audio output, use -render")

type player struct{}

func startPlayer(int, time.Duration, io.Reader) (*player, error) {
	return nil, errNoAudio
}

func (p *player) Err() error { return nil }

func (p *player) Close() error { return nil }
