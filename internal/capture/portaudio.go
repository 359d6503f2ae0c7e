package capture

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/hamzabk/termscope/internal/frame"
)

// stallWatchdog bounds how long ReadFrame waits without data before
// declaring the device gone. Real inputs deliver silence continuously,
// so a long gap means the stream died without an error surfacing.
const stallWatchdog = 5 * time.Second

// PortAudio is the default capture backend, wrapping a PortAudio input
// stream. The device callback accumulates interleaved samples into a
// staging frame and hands completed frames to ReadFrame over a small
// channel; the callback itself never blocks.
type PortAudio struct {
	deviceName string

	mu     sync.Mutex
	stream *portaudio.Stream
	device *portaudio.DeviceInfo

	frames chan frame.Frame
	closed chan struct{}
	events chan Event
	stop   chan struct{}
	once   sync.Once

	staging frame.Frame
	fill    int
}

// NewPortAudio returns a backend capturing from the named device, or
// the best available input when name is empty. PortAudio itself must
// already be initialized (see Initialize).
func NewPortAudio(deviceName string) *PortAudio {
	return &PortAudio{
		deviceName: deviceName,
		events:     make(chan Event, 8),
		stop:       make(chan struct{}),
	}
}

// Name identifies the backend in logs and the status bar.
func (p *PortAudio) Name() string { return "portaudio" }

// Device returns the device the open stream captures from.
func (p *PortAudio) Device() *portaudio.DeviceInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device
}

// Events implements Backend.
func (p *PortAudio) Events() <-chan Event { return p.events }

// Open finds the input device and starts the stream.
func (p *PortAudio) Open() error {
	device, err := findDevice(p.deviceName)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.device = device
	p.frames = make(chan frame.Frame, ringCap)
	p.closed = make(chan struct{})
	p.fill = 0
	frames := p.frames
	p.mu.Unlock()

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: frame.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      frame.SampleRate,
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, func(in []int16) {
		p.process(in, frames)
	})
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start stream: %w", err)
	}

	p.mu.Lock()
	p.stream = stream
	p.mu.Unlock()

	p.notify(EventStreaming)
	return nil
}

// process runs on the PortAudio callback thread.
func (p *PortAudio) process(in []int16, frames chan frame.Frame) {
	for _, s := range in {
		p.staging.Samples[p.fill] = s
		p.fill++
		if p.fill == frame.TotalSamples {
			p.fill = 0
			select {
			case frames <- p.staging:
			default:
				// Reader is behind; latest-wins happens in the ring
				// anyway, so dropping here is fine.
			}
		}
	}
}

// ReadFrame blocks until the next captured frame, a stop request, or
// the stall watchdog.
func (p *PortAudio) ReadFrame(out *frame.Frame) error {
	p.mu.Lock()
	frames := p.frames
	closed := p.closed
	p.mu.Unlock()
	if frames == nil {
		return fmt.Errorf("capture: backend not open")
	}

	t := time.NewTimer(stallWatchdog)
	defer t.Stop()
	select {
	case <-p.stop:
		return ErrStopped
	case <-closed:
		return ErrClosed
	case f := <-frames:
		*out = f
		return nil
	case <-t.C:
		p.notify(EventFailed)
		return ErrStalled
	}
}

// RequestStop unblocks any in-progress ReadFrame. Terminal: the
// backend is not reusable afterwards.
func (p *PortAudio) RequestStop() {
	p.once.Do(func() { close(p.stop) })
}

// Close stops and closes the underlying stream. A second Close of the
// same session is a no-op.
func (p *PortAudio) Close() error {
	p.mu.Lock()
	stream := p.stream
	p.stream = nil
	p.frames = nil
	if p.closed != nil {
		close(p.closed)
		p.closed = nil
	}
	p.mu.Unlock()
	if stream == nil {
		return nil
	}
	if err := stream.Stop(); err != nil && !isInvalidStreamState(err) {
		_ = stream.Close()
		return err
	}
	return stream.Close()
}

// isInvalidStreamState reports whether err stems from stopping an
// already stopped stream.
func isInvalidStreamState(err error) bool {
	if err == nil {
		return false
	}
	const invalidStateMsg = "PaErrorCode -9986"
	return strings.Contains(err.Error(), invalidStateMsg)
}

func (p *PortAudio) notify(ev Event) {
	select {
	case p.events <- ev:
	default:
	}
}

// ringCap sizes the callback-to-reader handoff channel.
const ringCap = 4

var (
	initOnce sync.Once
	termOnce sync.Once
	initErr  error
)

// Initialize wraps portaudio.Initialize with sync.Once so multiple
// callers are safe.
func Initialize() error {
	initOnce.Do(func() {
		initErr = portaudio.Initialize()
	})
	return initErr
}

// Terminate balances Initialize.
func Terminate() {
	if initErr != nil {
		return
	}
	termOnce.Do(func() {
		_ = portaudio.Terminate()
	})
}
