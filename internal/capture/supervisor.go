package capture

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/ringbuf"
)

// DefaultBackoff is the fixed delay between reconnect attempts.
const DefaultBackoff = time.Second

// SupervisorConfig wires a Supervisor.
type SupervisorConfig struct {
	Backend Backend
	Ring    *ringbuf.Ring
	Backoff time.Duration
	Log     *logrus.Logger
}

// Supervisor drives a Backend on its own goroutine, feeding consumed
// frames into the ring. Device errors are never fatal: open failures,
// read errors and disconnects all lead to a fixed backoff and another
// attempt, forever, until Stop.
type Supervisor struct {
	backend Backend
	ring    *ringbuf.Ring
	backoff time.Duration
	log     *logrus.Entry

	status   Status
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSupervisor builds a Supervisor; it does not touch the backend
// until Start.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return &Supervisor{
		backend: cfg.Backend,
		ring:    cfg.Ring,
		backoff: cfg.Backoff,
		log:     cfg.Log.WithField("backend", cfg.Backend.Name()),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Status exposes the published connection state for the render loop.
func (s *Supervisor) Status() *Status {
	return &s.status
}

// Start launches the capture goroutine.
func (s *Supervisor) Start() {
	go s.run()
}

// Stop requests shutdown. The stop signal is routed into the backend
// so a ReadFrame blocked in device I/O returns within bounded time;
// the running flag alone could not interrupt it.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.backend.RequestStop()
	})
}

// Wait blocks until the capture goroutine has exited. Callers must
// Stop first; Wait never unblocks a stuck read by itself.
func (s *Supervisor) Wait() {
	<-s.done
}

func (s *Supervisor) run() {
	defer close(s.done)
	defer s.status.set(Disconnected)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		s.status.set(Connecting)
		if err := s.backend.Open(); err != nil {
			s.log.WithError(err).Warn("open failed")
			if !s.waitBackoff() {
				return
			}
			continue
		}
		s.log.Info("capture streaming")
		s.status.set(Streaming)

		s.stream()

		if err := s.backend.Close(); err != nil {
			s.log.WithError(err).Debug("close after stream end")
		}

		select {
		case <-s.stop:
			return
		default:
		}

		if !s.waitBackoff() {
			return
		}
	}
}

// stream pumps frames until the backend fails, reports Failed or
// Disconnected through its event channel, or a stop is requested. The
// blocking reads run on their own goroutine so an event from a backend
// whose read is stuck in dead device I/O still ends the session
// immediately. A paused source is a valid, momentarily silent stream
// and never triggers a reconnect.
func (s *Supervisor) stream() {
	readErr := make(chan error, 1)
	go func() {
		var f frame.Frame
		for {
			if err := s.backend.ReadFrame(&f); err != nil {
				readErr <- err
				return
			}
			s.ring.Write(&f)
		}
	}()

	for {
		select {
		case err := <-readErr:
			select {
			case <-s.stop:
			default:
				s.log.WithError(err).Warn("stream ended")
			}
			return
		case ev := <-s.backend.Events():
			switch ev {
			case EventFailed, EventDisconnected:
				s.log.WithField("event", ev.String()).Warn("backend reported failure")
				// Close unblocks the pending read; join it so a stale
				// reader cannot steal frames from the next session.
				if err := s.backend.Close(); err != nil {
					s.log.WithError(err).Debug("close after failure event")
				}
				<-readErr
				return
			case EventPaused:
				s.log.Debug("source paused")
			case EventStreaming:
				s.log.Debug("source resumed")
			}
		case <-s.stop:
			// Stop already routed RequestStop into the backend, which
			// unblocks the read.
			<-readErr
			return
		}
	}
}

// waitBackoff publishes Failed, sleeps the fixed backoff, then settles
// on Disconnected. Returns false if stopped while waiting.
func (s *Supervisor) waitBackoff() bool {
	s.status.set(Failed)
	t := time.NewTimer(s.backoff)
	defer t.Stop()
	select {
	case <-s.stop:
		return false
	case <-t.C:
	}
	s.status.set(Disconnected)
	return true
}
