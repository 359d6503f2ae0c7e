package capture

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/hamzabk/termscope/internal/frame"
)

// frameInterval is how long one frame of audio lasts at the fixed
// sample rate; the fake backend paces itself with it.
const frameInterval = time.Second * frame.Frames / frame.SampleRate

// Fake synthesizes layered sines with a slow wobble so every mode has
// something to show without a sound card. Selected with
// --backend fake (or --no-audio); also handy in development.
type Fake struct {
	events chan Event
	stop   chan struct{}
	once   sync.Once

	rng       *rand.Rand
	phaseBass float64
	phaseMid  float64
	phaseHigh float64
	wobble    float64
}

// NewFake returns a synthetic backend.
func NewFake() *Fake {
	return &Fake{
		events: make(chan Event, 8),
		stop:   make(chan struct{}),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name identifies the backend in logs and the status bar.
func (f *Fake) Name() string { return "fake" }

// Events implements Backend.
func (f *Fake) Events() <-chan Event { return f.events }

// Open always succeeds.
func (f *Fake) Open() error {
	select {
	case f.events <- EventStreaming:
	default:
	}
	return nil
}

// ReadFrame waits one frame interval and synthesizes the next block.
func (f *Fake) ReadFrame(out *frame.Frame) error {
	t := time.NewTimer(frameInterval)
	defer t.Stop()
	select {
	case <-f.stop:
		return ErrStopped
	case <-t.C:
	}

	f.wobble += 0.003
	amp := 0.55 + 0.4*math.Sin(f.wobble)
	for i := 0; i < frame.Frames; i++ {
		f.phaseBass += 2 * math.Pi * 55 / frame.SampleRate
		f.phaseMid += 2 * math.Pi * 440 / frame.SampleRate
		f.phaseHigh += 2 * math.Pi * 2200 / frame.SampleRate

		v := 0.6*math.Sin(f.phaseBass) +
			0.3*math.Sin(f.phaseMid) +
			0.1*math.Sin(f.phaseHigh) +
			0.05*(f.rng.Float64()*2-1)
		v *= amp

		// Slightly detuned right channel so stereo modes show depth.
		r := v * (0.8 + 0.2*math.Sin(f.wobble*1.7))
		out.Samples[i*frame.Channels+frame.Left] = sampleToInt16(v)
		out.Samples[i*frame.Channels+frame.Right] = sampleToInt16(r)
	}
	return nil
}

// RequestStop unblocks any in-progress ReadFrame.
func (f *Fake) RequestStop() {
	f.once.Do(func() { close(f.stop) })
}

// Close implements Backend; nothing to release.
func (f *Fake) Close() error { return nil }
