package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 44100, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: 44100},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToneSourceIsPeriodic(t *testing.T) {
	s := newToneSource(1000, 48000, 0.5)
	l := make([]float64, 96)
	r := make([]float64, 96)
	s.Read(l, r)

	for i := 0; i < 48; i++ {
		if math.Abs(l[i]-l[i+48]) > 1e-9 {
			t.Fatalf("sample %d: %g vs %g one period later", i, l[i], l[i+48])
		}
		if l[i] != r[i] {
			t.Fatalf("channels differ at %d", i)
		}
	}
	if math.Abs(l[12]-0.5) > 1e-9 {
		t.Fatalf("quarter period = %g, want 0.5", l[12])
	}
}

func TestNoiseSourceDeterministic(t *testing.T) {
	a := newNoiseSource(3, 0.25)
	b := newNoiseSource(3, 0.25)

	la, ra := make([]float64, 512), make([]float64, 512)
	lb, rb := make([]float64, 512), make([]float64, 512)
	a.Read(la, ra)
	b.Read(lb, rb)

	for i := range la {
		if la[i] != lb[i] || ra[i] != rb[i] {
			t.Fatalf("sample %d differs for equal seeds", i)
		}
		if math.Abs(la[i]) > 0.25 || math.Abs(ra[i]) > 0.25 {
			t.Fatalf("sample %d exceeds gain", i)
		}
	}
}

func TestLoadWAVStereo(t *testing.T) {
	path := writeWAV(t, 2, []int{16384, -16384, 0, 8192})

	s, err := loadWAV(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if s.sampleRate != 44100 {
		t.Fatalf("sample rate = %g, want 44100", s.sampleRate)
	}

	l := make([]float64, 4)
	r := make([]float64, 4)
	s.Read(l, r)

	wantL := []float64{0.5, 0, 0.5, 0}
	wantR := []float64{-0.5, 0.25, -0.5, 0.25}
	for i := range l {
		if l[i] != wantL[i] || r[i] != wantR[i] {
			t.Fatalf("frame %d = (%g, %g), want (%g, %g)", i, l[i], r[i], wantL[i], wantR[i])
		}
	}
}

func TestLoadWAVMonoDuplicates(t *testing.T) {
	path := writeWAV(t, 1, []int{8192, -8192})

	s, err := loadWAV(path, 2)
	if err != nil {
		t.Fatal(err)
	}

	l := make([]float64, 2)
	r := make([]float64, 2)
	s.Read(l, r)
	if l[0] != 0.5 || r[0] != 0.5 || l[1] != -0.5 || r[1] != -0.5 {
		t.Fatalf("mono frames = %v / %v", l, r)
	}
}

func TestLoadWAVInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("not a riff file at all"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadWAV(path, 1); !errors.Is(err, errInvalidWAV) {
		t.Fatalf("err = %v, want errInvalidWAV", err)
	}
}

func TestNewSourceKinds(t *testing.T) {
	s := DefaultSettings()

	src, rate, err := newSource(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*toneSource); !ok || rate != s.SampleRate {
		t.Fatalf("tone: got %T at %g", src, rate)
	}

	s.Source = "noise"
	if src, _, _ = newSource(s); src == nil {
		t.Fatal("noise source is nil")
	}
	if _, ok := src.(*noiseSource); !ok {
		t.Fatalf("noise: got %T", src)
	}

	s.Source = filepath.Join(t.TempDir(), "missing.wav")
	if _, _, err := newSource(s); err == nil {
		t.Fatal("expected error for missing file")
	}
}
