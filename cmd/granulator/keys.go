package main

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/cwbudde/algo-granular/dsp/effects/granular"
)

const grainStep = 4

const keyHelp = "keys: f freeze  +/- grains  m mode  ,/. position  a/z size  s/x density  " +
	"d/c texture  j/k pitch  g/b feedback  h/n reverb  [/] dry-wet  q quit"

// controlKey nudges one control field.
type controlKey struct {
	name  string
	delta float64
	field func(*granular.Controls) *float64
}

var controlKeys = map[byte]controlKey{
	',': {"position", -0.05, func(c *granular.Controls) *float64 { return &c.Position }},
	'.': {"position", 0.05, func(c *granular.Controls) *float64 { return &c.Position }},
	'a': {"size", 0.05, func(c *granular.Controls) *float64 { return &c.Size }},
	'z': {"size", -0.05, func(c *granular.Controls) *float64 { return &c.Size }},
	's': {"density", 0.05, func(c *granular.Controls) *float64 { return &c.Density }},
	'x': {"density", -0.05, func(c *granular.Controls) *float64 { return &c.Density }},
	'd': {"texture", 0.05, func(c *granular.Controls) *float64 { return &c.Texture }},
	'c': {"texture", -0.05, func(c *granular.Controls) *float64 { return &c.Texture }},
	'j': {"pitch", -1, func(c *granular.Controls) *float64 { return &c.Pitch }},
	'k': {"pitch", 1, func(c *granular.Controls) *float64 { return &c.Pitch }},
	'g': {"feedback", 0.05, func(c *granular.Controls) *float64 { return &c.Feedback }},
	'b': {"feedback", -0.05, func(c *granular.Controls) *float64 { return &c.Feedback }},
	'h': {"reverb", 0.05, func(c *granular.Controls) *float64 { return &c.Reverb }},
	'n': {"reverb", -0.05, func(c *granular.Controls) *float64 { return &c.Reverb }},
	'[': {"dry_wet", -0.05, func(c *granular.Controls) *float64 { return &c.DryWet }},
	']': {"dry_wet", 0.05, func(c *granular.Controls) *float64 { return &c.DryWet }},
}

// keyboard turns key presses into engine messages and control changes.
// It is the only producer on the engine's message queue.
type keyboard struct {
	queue  *granular.ControlQueue
	r      *renderer
	logger *slog.Logger

	frozen bool
	grains int
	mode   granular.Mode
}

func newKeyboard(r *renderer, s Settings, logger *slog.Logger) *keyboard {
	return &keyboard{
		queue:  r.engine.Messages(),
		r:      r,
		logger: logger,
		frozen: s.Frozen,
		grains: s.GrainCount,
		mode:   r.engine.Mode(),
	}
}

// handle processes one key and reports whether it asked to quit.
func (k *keyboard) handle(b byte) (quit bool) {
	switch b {
	case 'q', 'Q', 3, 27: // Ctrl-C, Esc
		return true
	case 'f', ' ':
		k.frozen = !k.frozen
		k.send(granular.Freeze(k.frozen), "freeze", "frozen", k.frozen)
	case '+', '=':
		k.grains = min(k.grains+grainStep, granular.MaxGrains)
		k.send(granular.SetGrainCount(k.grains), "grain count", "grains", k.grains)
	case '-', '_':
		k.grains = max(k.grains-grainStep, 1)
		k.send(granular.SetGrainCount(k.grains), "grain count", "grains", k.grains)
	case 'm':
		k.mode = (k.mode + 1) % (granular.ModeSpectral + 1)
		k.send(granular.SetMode(k.mode), "mode", "mode", k.mode)
	default:
		ck, ok := controlKeys[b]
		if !ok {
			return false
		}
		c := k.r.Controls()
		*ck.field(&c) += ck.delta
		c = c.Clamped()
		k.r.SetControls(c)
		k.logger.Info("control", ck.name, *ck.field(&c))
	}
	return false
}

func (k *keyboard) send(m granular.Message, msg, key string, value any) {
	if !k.queue.Push(m) {
		k.logger.Warn("control queue full, message dropped", key, value)
		return
	}
	k.logger.Info(msg, key, value)
	if m.Kind == granular.MessageSetMode && !k.mode.Implemented() {
		k.logger.Warn("mode not implemented, output stays granular", "mode", k.mode)
	}
}

// run reads keys from r until quit or end of input.
func (k *keyboard) run(r io.Reader) error {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 && k.handle(buf[0]) {
			return nil
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// enableRawMode switches stdin to raw mode when it is a terminal. The
// returned function restores the previous state.
func enableRawMode() (restore func(), ok bool, err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, false, nil
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}, false, err
	}
	return func() { _ = term.Restore(fd, old) }, true, nil
}

// rawWriter inserts a carriage return before each newline while the
// terminal is in raw mode.
type rawWriter struct {
	w   io.Writer
	raw atomic.Bool
}

func (w *rawWriter) Write(p []byte) (int, error) {
	if !w.raw.Load() {
		return w.w.Write(p)
	}

	out := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == '\n' {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := w.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
