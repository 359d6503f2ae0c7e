package capture

import (
	"fmt"
	"sync"
	"time"

	jack "github.com/xthexder/go-jack"

	"github.com/hamzabk/termscope/internal/frame"
)

const jackClientName = "termscope"

// JACK captures from a JACK server, registering one input port per
// channel and interleaving the float32 process buffers into int16
// frames. Selected at startup with --backend jack, same contract as
// PortAudio.
type JACK struct {
	sourcePrefix string

	mu     sync.Mutex
	client *jack.Client
	ports  [frame.Channels]*jack.Port

	frames chan frame.Frame
	closed chan struct{}
	events chan Event
	stop   chan struct{}
	once   sync.Once

	staging frame.Frame
	fill    int
}

// NewJACK returns a backend that connects its inputs to
// sourcePrefix+"_1"/"_2" ("system:capture" when empty).
func NewJACK(sourcePrefix string) *JACK {
	if sourcePrefix == "" {
		sourcePrefix = "system:capture"
	}
	return &JACK{
		sourcePrefix: sourcePrefix,
		events:       make(chan Event, 8),
		stop:         make(chan struct{}),
	}
}

// Name identifies the backend in logs and the status bar.
func (j *JACK) Name() string { return "jack" }

// Events implements Backend.
func (j *JACK) Events() <-chan Event { return j.events }

// Open connects to the JACK server and activates the client.
func (j *JACK) Open() error {
	client, status := jack.ClientOpen(jackClientName, jack.NoStartServer)
	if client == nil || status != 0 {
		return fmt.Errorf("jack open: %s", jack.StrError(status))
	}

	j.mu.Lock()
	j.client = client
	j.frames = make(chan frame.Frame, ringCap)
	j.closed = make(chan struct{})
	j.fill = 0
	j.mu.Unlock()

	for ch := range j.ports {
		j.ports[ch] = client.PortRegister(fmt.Sprintf("in_%d", ch),
			jack.DEFAULT_AUDIO_TYPE, jack.PortIsInput, 0)
	}

	if code := client.SetProcessCallback(j.process); code != 0 {
		_ = j.Close()
		return fmt.Errorf("jack process callback: %s", jack.StrError(code))
	}
	client.OnShutdown(func() {
		// Server went away; the watchdog will surface it to ReadFrame.
		j.notify(EventDisconnected)
	})

	if code := client.Activate(); code != 0 {
		_ = j.Close()
		return fmt.Errorf("jack activate: %s", jack.StrError(code))
	}

	for ch := range j.ports {
		src := fmt.Sprintf("%s_%d", j.sourcePrefix, ch+1)
		dst := fmt.Sprintf("%s:in_%d", jackClientName, ch)
		// Best effort: a missing source port is not fatal, the user can
		// patch the connection in qjackctl.
		client.Connect(src, dst)
	}

	j.notify(EventStreaming)
	return nil
}

// process runs on the JACK realtime thread.
func (j *JACK) process(nframes uint32) int {
	j.mu.Lock()
	frames := j.frames
	ports := j.ports
	j.mu.Unlock()
	if frames == nil || ports[0] == nil || ports[1] == nil {
		return 0
	}

	left := ports[frame.Left].GetBuffer(nframes)
	right := ports[frame.Right].GetBuffer(nframes)
	for i := uint32(0); i < nframes; i++ {
		j.staging.Samples[j.fill] = sampleToInt16(float64(left[i]))
		j.staging.Samples[j.fill+1] = sampleToInt16(float64(right[i]))
		j.fill += frame.Channels
		if j.fill == frame.TotalSamples {
			j.fill = 0
			select {
			case frames <- j.staging:
			default:
			}
		}
	}
	return 0
}

// ReadFrame blocks until the next captured frame, a stop request, or
// the stall watchdog.
func (j *JACK) ReadFrame(out *frame.Frame) error {
	j.mu.Lock()
	frames := j.frames
	closed := j.closed
	j.mu.Unlock()
	if frames == nil {
		return fmt.Errorf("capture: backend not open")
	}

	t := time.NewTimer(stallWatchdog)
	defer t.Stop()
	select {
	case <-j.stop:
		return ErrStopped
	case <-closed:
		return ErrClosed
	case f := <-frames:
		*out = f
		return nil
	case <-t.C:
		j.notify(EventFailed)
		return ErrStalled
	}
}

// RequestStop unblocks any in-progress ReadFrame.
func (j *JACK) RequestStop() {
	j.once.Do(func() { close(j.stop) })
}

// Close deactivates and closes the JACK client. A second Close of the
// same session is a no-op.
func (j *JACK) Close() error {
	j.mu.Lock()
	client := j.client
	j.client = nil
	j.frames = nil
	if j.closed != nil {
		close(j.closed)
		j.closed = nil
	}
	for ch := range j.ports {
		j.ports[ch] = nil
	}
	j.mu.Unlock()
	if client == nil {
		return nil
	}
	if code := client.Close(); code != 0 {
		return fmt.Errorf("jack close: %s", jack.StrError(code))
	}
	return nil
}

func (j *JACK) notify(ev Event) {
	select {
	case j.events <- ev:
	default:
	}
}

func sampleToInt16(v float64) int16 {
	v *= frame.MaxSample
	if v > frame.MaxSample {
		return frame.MaxSample
	}
	if v < -frame.MaxSample {
		return -frame.MaxSample
	}
	return int16(v)
}
