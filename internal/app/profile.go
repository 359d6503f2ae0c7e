package app

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// profiler appends per-tick section timings to a CSV file when the
// --profile flag names one. A nil profiler is a no-op, so the render
// loop calls it unconditionally.
type profiler struct {
	mu      sync.Mutex
	file    *os.File
	start   time.Time
	last    time.Time
	enabled bool
}

func newProfiler(path string, log *logrus.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if log != nil {
			log.WithError(err).Warn("profiler disabled")
		}
		return nil
	}
	p := &profiler{
		file:    f,
		enabled: true,
	}
	p.writeHeader()
	return p
}

func (p *profiler) writeHeader() {
	if p == nil || !p.enabled {
		return
	}
	fmt.Fprintln(p.file, "timestamp,section,delta_ms")
}

func (p *profiler) beginFrame() {
	if p == nil || !p.enabled {
		return
	}
	now := time.Now()
	p.start = now
	p.last = now
	p.log("tick_start", 0)
}

func (p *profiler) markSection(name string) {
	if p == nil || !p.enabled {
		return
	}
	now := time.Now()
	delta := now.Sub(p.last).Seconds() * 1000
	p.last = now
	p.log(name, delta)
}

func (p *profiler) endFrame() {
	if p == nil || !p.enabled {
		return
	}
	total := time.Since(p.start).Seconds() * 1000
	p.log("tick_total", total)
}

func (p *profiler) Close() error {
	if p == nil || !p.enabled {
		return nil
	}
	return p.file.Close()
}

func (p *profiler) log(section string, deltaMs float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return
	}
	timestamp := time.Now().Format(time.RFC3339Nano)
	fmt.Fprintf(p.file, "%s,%s,%.3f\n", timestamp, section, deltaMs)
}
