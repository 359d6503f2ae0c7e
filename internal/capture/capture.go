// Package capture abstracts the native audio input device behind a
// small backend contract and supervises its connect/stream/fail/retry
// lifecycle on a dedicated goroutine.
package capture

import (
	"errors"
	"sync/atomic"

	"github.com/hamzabk/termscope/internal/frame"
)

// State is the supervisor's connection state, published to the render
// loop. Single writer (the supervisor), any number of readers.
type State int32

const (
	Disconnected State = iota
	Connecting
	Streaming
	Failed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Streaming:
		return "streaming"
	case Failed:
		return "failed"
	default:
		return "disconnected"
	}
}

// Event is a state-change notification emitted by a backend.
type Event int

const (
	EventStreaming Event = iota
	EventPaused
	EventFailed
	EventDisconnected
)

func (e Event) String() string {
	switch e {
	case EventStreaming:
		return "streaming"
	case EventPaused:
		return "paused"
	case EventFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// ErrStopped is returned by ReadFrame after RequestStop.
var ErrStopped = errors.New("capture: stopped")

// ErrStalled is returned by ReadFrame when the device has delivered no
// data for longer than the stall watchdog allows, which on an
// always-on input means the device went away.
var ErrStalled = errors.New("capture: stream stalled")

// ErrClosed is returned by ReadFrame when the session was torn down by
// Close while the read was blocked.
var ErrClosed = errors.New("capture: backend closed")

// Backend is one native audio input. Implementations deliver
// fixed-size interleaved stereo 16-bit frames at frame.SampleRate.
//
// ReadFrame may block the calling goroutine in device I/O only;
// RequestStop must cause any in-progress ReadFrame to return promptly
// with ErrStopped. Close releases the device, unblocks any in-progress
// ReadFrame with ErrClosed, and is safe after a failed Open; a closed
// backend may be opened again.
type Backend interface {
	Name() string
	Open() error
	ReadFrame(*frame.Frame) error
	RequestStop()
	Close() error
	// Events reports backend state changes (pause, failure, device
	// loss) so the supervisor does not have to poll blindly. The
	// channel is never closed and sends never block the backend.
	Events() <-chan Event
}

// Status publishes the supervisor's connection state. Reads are
// wait-free; the render loop checks it every tick to decide between
// live frames and the disconnected placeholder.
type Status struct {
	v atomic.Int32
}

// State returns the last published state.
func (s *Status) State() State {
	return State(s.v.Load())
}

func (s *Status) set(st State) {
	s.v.Store(int32(st))
}
