package granular

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// QueueCapacity is the number of entries each control or status queue holds.
const QueueCapacity = 64

const queueMask = QueueCapacity - 1

// Mode selects the processing algorithm. Only ModeGranular is implemented;
// the other identifiers are reserved and leave the engine granular.
type Mode uint8

const (
	ModeGranular Mode = iota
	ModePitchShift
	ModeLoopingDelay
	ModeSpectral
)

var modeNames = [...]string{
	ModeGranular:     "granular",
	ModePitchShift:   "pitch-shift",
	ModeLoopingDelay: "looping-delay",
	ModeSpectral:     "spectral",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Implemented reports whether the engine has a processing path for m.
func (m Mode) Implemented() bool { return m == ModeGranular }

// ParseMode resolves a mode by name, case-insensitively.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return ModeGranular, fmt.Errorf("granular: unknown mode %q", name)
}

// MessageKind identifies a control message.
type MessageKind uint8

const (
	MessageFreeze MessageKind = iota + 1
	MessageSetGrainCount
	MessageSetMode
)

// Message is a control change applied by the audio context at the next
// block boundary. Value carries the payload: 0/1 for freeze, the grain count
// or the Mode.
type Message struct {
	Kind  MessageKind
	Value int
}

// Freeze returns a message that toggles capture freeze.
func Freeze(on bool) Message {
	v := 0
	if on {
		v = 1
	}
	return Message{Kind: MessageFreeze, Value: v}
}

// SetGrainCount returns a message that resizes the grain pool. The count is
// clamped to [1, MaxGrains] when applied.
func SetGrainCount(n int) Message {
	return Message{Kind: MessageSetGrainCount, Value: n}
}

// SetMode returns a message that switches the processing mode.
func SetMode(m Mode) Message {
	return Message{Kind: MessageSetMode, Value: int(m)}
}

// Status is the engine state published after each Process call.
type Status struct {
	Frozen       bool
	WriteHead    int
	ActiveGrains int
	Capacity     int
	Mode         Mode
	PeakL        float64
	PeakR        float64
}

// ring is a bounded single-producer/single-consumer queue. head is only
// stored by the consumer and tail only by the producer; the atomic store of
// tail publishes the slot written before it.
type ring[T any] struct {
	buf  [QueueCapacity]T
	head atomic.Uint64
	tail atomic.Uint64
}

func (q *ring[T]) push(v T) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() >= QueueCapacity {
		return false
	}

	q.buf[tail&queueMask] = v
	q.tail.Store(tail + 1)

	return true
}

func (q *ring[T]) pop() (T, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		var zero T
		return zero, false
	}

	v := q.buf[head&queueMask]
	q.head.Store(head + 1)

	return v, true
}

func (q *ring[T]) len() int {
	return int(q.tail.Load() - q.head.Load())
}

// ControlQueue carries Messages from one control goroutine to the audio
// context. Push never blocks; it reports false when the queue is full.
type ControlQueue struct {
	ring ring[Message]
}

// Push enqueues m. It must only be called from the producing goroutine.
func (q *ControlQueue) Push(m Message) bool { return q.ring.push(m) }

// Pop dequeues the oldest message. It must only be called from the audio
// context.
func (q *ControlQueue) Pop() (Message, bool) { return q.ring.pop() }

// Len returns the number of pending messages.
func (q *ControlQueue) Len() int { return q.ring.len() }

// StatusQueue carries Status values from the audio context to one reader.
// When the reader falls behind, new statuses are dropped.
type StatusQueue struct {
	ring    ring[Status]
	dropped atomic.Uint64
}

func (q *StatusQueue) publish(s Status) {
	if !q.ring.push(s) {
		q.dropped.Add(1)
	}
}

// Pop dequeues the oldest status.
func (q *StatusQueue) Pop() (Status, bool) { return q.ring.pop() }

// Latest drains the queue and returns the newest status, if any.
func (q *StatusQueue) Latest() (Status, bool) {
	var (
		last Status
		ok   bool
	)
	for {
		s, more := q.ring.pop()
		if !more {
			return last, ok
		}
		last, ok = s, true
	}
}

// Len returns the number of unread statuses.
func (q *StatusQueue) Len() int { return q.ring.len() }

// Dropped returns how many statuses were discarded because the queue was
// full.
func (q *StatusQueue) Dropped() uint64 { return q.dropped.Load() }
