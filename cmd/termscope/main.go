package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/hamzabk/termscope/internal/app"
	"github.com/hamzabk/termscope/internal/capture"
	"github.com/hamzabk/termscope/internal/config"
	"github.com/hamzabk/termscope/internal/monitor"
	"github.com/hamzabk/termscope/internal/surface"
)

func main() {
	var (
		backendName = flag.String("backend", "portaudio", "Capture backend (portaudio|jack|fake)")
		deviceName  = flag.String("audio-device", "", "Optional PortAudio device name (substring match)")
		jackSource  = flag.String("jack-source", "", "JACK source port prefix (default system:capture)")
		targetFPS   = flag.Float64("fps", 60, "Target render ticks per second")
		configPath  = flag.String("config", "", "Config file path (default ~/.config/termscope.conf)")
		monitorAddr = flag.String("monitor", "", "Serve status/control HTTP on this address (e.g. :8090)")
		sdlMirror   = flag.Bool("sdl", false, "Mirror the cell grid into an SDL window (requires -tags sdl build)")
		profilePath = flag.String("profile", "", "Append per-tick timing CSV to this file")
		logPath     = flag.String("log", "", "Write logs to this file (terminal is owned by the UI)")
		debug       = flag.Bool("debug", false, "Enable verbose logging")
		noAudio     = flag.Bool("no-audio", false, "Run with a synthetic signal (for testing)")
		listDevs    = flag.Bool("list-audio-devices", false, "List available audio input devices and exit")
	)

	flag.Parse()

	if *targetFPS <= 0 {
		fmt.Fprintf(os.Stderr, "fps must be positive (got %.2f)\n", *targetFPS)
		os.Exit(1)
	}

	logger := newLogger(*logPath, *debug)

	if *listDevs {
		if err := listDevices(); err != nil {
			fmt.Fprintf(os.Stderr, "list devices: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal")
		os.Exit(1)
	}

	conf := loadConfig(*configPath, logger)

	backend, cleanup, err := buildBackend(*backendName, *deviceName, *jackSource, *noAudio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "capture backend: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	pairs := append(append([]config.ColorPair(nil), conf.Gradient...), conf.Edge)
	terminal, err := surface.NewTerminal(pairs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	defer terminal.Fini()

	var mirrors []surface.Surface
	if *sdlMirror {
		if !surface.SupportsSDL() {
			logger.Warn("SDL mirror requested but not compiled in")
		} else {
			cols, rows := terminal.Size()
			mirror, err := surface.NewSDLMirror(pairs, cols, rows)
			if err != nil {
				logger.WithError(err).Warn("SDL mirror unavailable")
			} else {
				defer mirror.Close()
				mirrors = append(mirrors, mirror)
			}
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Config{
		Backend:   backend,
		Conf:      conf,
		TargetFPS: *targetFPS,
		Term:      terminal,
		Mirrors:   mirrors,
		Profile:   *profilePath,
		Log:       logger,
	})
	if err != nil {
		terminal.Fini()
		fmt.Fprintf(os.Stderr, "app: %v\n", err)
		os.Exit(1)
	}

	if *monitorAddr != "" {
		srv := monitor.NewServer(a, logger)
		go func() {
			if err := srv.Start(*monitorAddr); err != nil {
				logger.WithError(err).Error("monitor server stopped")
			}
		}()
	}

	err = a.Run(ctx)
	if err != nil && ctx.Err() == nil {
		terminal.Fini()
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		os.Exit(1)
	}

	// Let the capture callback drain before PortAudio terminates.
	time.Sleep(50 * time.Millisecond)
}

func newLogger(path string, debug bool) *logrus.Logger {
	logger := logrus.New()
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if path == "" {
		// The UI owns the terminal; logs without a destination are
		// dropped rather than painted over the visualization.
		logger.SetOutput(io.Discard)
		return logger
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		logger.SetOutput(io.Discard)
		return logger
	}
	logger.SetOutput(f)
	return logger
}

func loadConfig(path string, logger *logrus.Logger) config.Config {
	if path == "" {
		path = config.DefaultPath()
	}
	conf, err := config.Load(path)
	if err != nil {
		// Malformed or missing config falls back to the built-in
		// gradient; it must never stop the visualization.
		logger.WithError(err).WithField("path", path).Warn("using default config")
		return config.Defaults()
	}
	return conf
}

func buildBackend(name, device, jackSource string, noAudio bool) (capture.Backend, func(), error) {
	if noAudio || name == "fake" {
		return capture.NewFake(), func() {}, nil
	}
	switch name {
	case "portaudio":
		if err := capture.Initialize(); err != nil {
			return nil, func() {}, err
		}
		return capture.NewPortAudio(device), capture.Terminate, nil
	case "jack":
		return capture.NewJACK(jackSource), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown backend %q", name)
	}
}

func listDevices() error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()

	devices, err := capture.ListDevices()
	if err != nil {
		return err
	}
	fmt.Printf("\n=== Audio Input Devices ===\n\n")
	for _, dev := range devices {
		if dev.MaxInput == 0 {
			continue
		}
		markers := ""
		if dev.IsDefaultInput {
			markers += " (default)"
		}
		fmt.Printf("- %s [%s]%s\n    inputs:%d sample:%.0f Hz\n",
			dev.Name, dev.HostAPI, markers, dev.MaxInput, dev.DefaultSampleHz)
	}
	return nil
}
