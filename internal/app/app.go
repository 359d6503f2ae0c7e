// Package app owns the render loop: it ties the capture supervisor,
// the frame ring, and the visualization modes together and drives them
// at a fixed tick rate on a tcell surface.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/hamzabk/termscope/internal/capture"
	"github.com/hamzabk/termscope/internal/config"
	"github.com/hamzabk/termscope/internal/dsp"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/ringbuf"
	"github.com/hamzabk/termscope/internal/surface"
	"github.com/hamzabk/termscope/internal/vis"
)

// Config configures the application runtime.
type Config struct {
	Backend   capture.Backend
	Conf      config.Config
	TargetFPS float64
	Term      *surface.Terminal
	Mirrors   []surface.Surface
	Profile   string
	Log       *logrus.Logger
}

type inputEvent int

const (
	inputEventQuit inputEvent = iota
	inputEventNextMode
	inputEventMeterPeak
	inputEventMeterRMS
)

// Status is a read-only snapshot of the loop for the monitor server.
type Status struct {
	State   string             `json:"state"`
	Mode    string             `json:"mode"`
	FPS     float64            `json:"fps"`
	Dropped uint64             `json:"dropped"`
	Levels  map[string]float64 `json:"levels"`
}

// Control carries a remote adjustment request. Empty fields are left
// unchanged.
type Control struct {
	Mode   string `json:"mode"`
	Energy string `json:"energy"`
}

// App ties together capture, smoothing state, and the surface.
type App struct {
	cfg     Config
	log     *logrus.Logger
	surf    surface.Surface
	ring    *ringbuf.Ring
	sup     *capture.Supervisor
	modes   []vis.Mode
	current int
	meter   *vis.Meter
	prof    *profiler

	frame     frame.Frame
	haveFrame bool
	wasLive   bool

	inputEvents chan inputEvent
	controls    chan Control

	fps        float64
	tickCount  int
	lastSample time.Time

	snap chan Status
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("no capture backend")
	}
	if cfg.Term == nil {
		return nil, fmt.Errorf("no terminal surface")
	}
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}

	var surf surface.Surface = cfg.Term
	if len(cfg.Mirrors) > 0 {
		surf = surface.NewMulti(cfg.Term, cfg.Mirrors...)
	}

	ring := ringbuf.New()
	palette := vis.NewPalette(len(cfg.Conf.Gradient))
	decay := cfg.Conf.DecayFactor

	meter := vis.NewMeter(palette, decay)
	modes := []vis.Mode{
		vis.NewOscilloscope(palette),
		meter,
		vis.NewBars(palette, decay),
		vis.NewSpectrumBars(palette, decay),
		vis.NewGalaxy(palette, decay),
	}
	for _, def := range cfg.Conf.Shapes {
		modes = append(modes, vis.NewShape(palette, def, decay))
	}

	return &App{
		cfg:         cfg,
		log:         cfg.Log,
		surf:        surf,
		ring:        ring,
		sup:         capture.NewSupervisor(capture.SupervisorConfig{Backend: cfg.Backend, Ring: ring, Log: cfg.Log}),
		modes:       modes,
		meter:       meter,
		prof:        newProfiler(cfg.Profile, cfg.Log),
		inputEvents: make(chan inputEvent, 16),
		controls:    make(chan Control, 4),
		lastSample:  time.Now(),
		snap:        make(chan Status, 1),
	}, nil
}

// Run starts the capture supervisor and the render loop, returning
// when the user quits or the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	frameDuration := time.Duration(float64(time.Second) / a.cfg.TargetFPS)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	a.sup.Start()
	defer func() {
		a.sup.Stop()
		a.sup.Wait()
		a.prof.Close()
	}()

	// On exit, cancel runs before the interrupt wakes PollEvent, so
	// the input goroutine observes the cancelled context and returns.
	inputCtx, cancelInput := context.WithCancel(ctx)
	defer a.cfg.Term.Interrupt()
	defer cancelInput()
	go a.pollInput(inputCtx)

	a.log.WithFields(logrus.Fields{
		"backend": a.cfg.Backend.Name(),
		"fps":     a.cfg.TargetFPS,
		"modes":   len(a.modes),
	}).Info("render loop started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-a.inputEvents:
			if evt == inputEventQuit {
				return nil
			}
			a.handleInput(evt)
		case ctl := <-a.controls:
			a.applyControl(ctl)
		case <-ticker.C:
			a.step()
		}
	}
}

// Snapshot returns the most recent end-of-tick status.
func (a *App) Snapshot() Status {
	select {
	case s := <-a.snap:
		// Put it back so repeated callers see the same tick.
		select {
		case a.snap <- s:
		default:
		}
		return s
	default:
		return Status{State: a.sup.Status().State().String()}
	}
}

// Apply queues a remote control request for the next tick. It never
// blocks; a full queue drops the request.
func (a *App) Apply(ctl Control) error {
	select {
	case a.controls <- ctl:
		return nil
	default:
		return fmt.Errorf("control queue full")
	}
}

func (a *App) handleInput(evt inputEvent) {
	switch evt {
	case inputEventNextMode:
		a.switchMode((a.current + 1) % len(a.modes))
	case inputEventMeterPeak:
		a.meter.SetEnergy(dsp.Peak)
	case inputEventMeterRMS:
		a.meter.SetEnergy(dsp.RMS)
	}
}

func (a *App) applyControl(ctl Control) {
	if ctl.Mode != "" {
		for i, m := range a.modes {
			if m.Name() == ctl.Mode {
				a.switchMode(i)
				break
			}
		}
	}
	switch ctl.Energy {
	case "peak":
		a.meter.SetEnergy(dsp.Peak)
	case "rms":
		a.meter.SetEnergy(dsp.RMS)
	}
}

// switchMode resets the outgoing mode so its smoothing state does not
// replay when the user cycles back to it.
func (a *App) switchMode(next int) {
	a.modes[a.current].Reset()
	a.current = next
	a.log.WithField("mode", a.modes[next].Name()).Debug("mode switched")
}

func (a *App) step() {
	a.prof.beginFrame()
	defer a.prof.endFrame()

	width, height := a.surf.Size()
	if width < 4 || height < 4 {
		// Terminal too small to hold a band plus the status bar.
		// Skip the tick rather than draw garbage.
		return
	}
	drawHeight := height - 1

	state := a.sup.Status().State()
	if a.ring.TryRead(&a.frame) {
		a.haveFrame = true
	}
	a.prof.markSection("read")

	a.surf.Clear()
	region := surface.Region{S: a.surf, W: width, H: drawHeight}
	mode := a.modes[a.current]

	if state == capture.Streaming {
		if a.haveFrame {
			mode.Draw(region, &a.frame)
			a.drawChannelLabels(region, mode, drawHeight)
		}
		a.wasLive = true
	} else {
		// Force all smoothing state to zero so a reconnect or a mode
		// switch never shows stale levels.
		if a.wasLive {
			for _, m := range a.modes {
				m.Reset()
			}
			a.haveFrame = false
			a.wasLive = false
		}
		a.drawPlaceholder(region, state)
	}
	a.prof.markSection("draw")

	a.updateFPS()
	a.drawStatusBar(width, height, state, mode)
	a.surf.Show()
	a.prof.markSection("show")

	a.publishStatus(state, mode)
}

// drawChannelLabels marks the stereo bands for the modes that split
// the screen per channel.
func (a *App) drawChannelLabels(s surface.Surface, mode vis.Mode, drawHeight int) {
	switch mode.(type) {
	case *vis.Oscilloscope, *vis.Meter, *vis.Bars, *vis.SpectrumBars:
		s.SetCell(2, 0, 'L', 0, surface.AttrBold)
		s.SetCell(2, drawHeight/2, 'R', 0, surface.AttrBold)
	}
}

func (a *App) drawPlaceholder(s surface.Surface, state capture.State) {
	width, height := s.Size()
	msg := fmt.Sprintf("[ %s : waiting for audio ]", state)
	x := (width - len(msg)) / 2
	if x < 0 {
		x = 0
	}
	for i, r := range msg {
		s.SetCell(x+i, height/2, r, 0, surface.AttrBold)
	}
}

func (a *App) drawStatusBar(width, height int, state capture.State, mode vis.Mode) {
	text := fmt.Sprintf(" Mode: %s | %s | Freq: %dHz | FPS: %.1f | Meter: %s | SPACE mode / Q quit ",
		mode.Name(), state, frame.SampleRate, a.fps, a.meter.Energy())
	y := height - 1
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(text) {
			r = rune(text[x])
		}
		a.surf.SetCell(x, y, r, 0, surface.AttrReverse)
	}
}

func (a *App) updateFPS() {
	a.tickCount++
	if elapsed := time.Since(a.lastSample); elapsed >= time.Second {
		a.fps = float64(a.tickCount) / elapsed.Seconds()
		a.tickCount = 0
		a.lastSample = time.Now()
	}
}

func (a *App) publishStatus(state capture.State, mode vis.Mode) {
	levels := a.meter.Levels()
	s := Status{
		State:   state.String(),
		Mode:    mode.Name(),
		FPS:     a.fps,
		Dropped: a.ring.Dropped(),
		Levels: map[string]float64{
			"left":  levels[frame.Left],
			"right": levels[frame.Right],
		},
	}
	select {
	case <-a.snap:
	default:
	}
	a.snap <- s
}

// ModeNames lists the loaded modes in cycle order.
func (a *App) ModeNames() []string {
	names := make([]string, len(a.modes))
	for i, m := range a.modes {
		names[i] = m.Name()
	}
	return names
}

// pollInput turns tcell events into loop events until the context is
// cancelled. PollEvent blocks, so shutdown posts an interrupt event
// through Terminal.Interrupt to unblock it.
func (a *App) pollInput(ctx context.Context) {
	for {
		ev := a.cfg.Term.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
				a.inputEvents <- inputEventQuit
				return
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				a.inputEvents <- inputEventQuit
				return
			case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
				a.sendInput(inputEventNextMode)
			case ev.Key() == tcell.KeyUp:
				a.sendInput(inputEventMeterPeak)
			case ev.Key() == tcell.KeyDown:
				a.sendInput(inputEventMeterRMS)
			}
		case *tcell.EventResize:
			// Size is re-read every tick; nothing to do here.
		}
	}
}

func (a *App) sendInput(evt inputEvent) {
	select {
	case a.inputEvents <- evt:
	default:
	}
}
