// Package vis contains the visualization modes. Each mode is a pure
// function of the current stereo frame plus its own smoothing state,
// drawing onto a Surface; all state lives in explicit per-mode objects
// owned by the render goroutine.
package vis

import (
	"github.com/hamzabk/termscope/internal/dsp"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

// Mode is one visualization. Draw is called once per render tick with
// the most recent frame; Reset forces all persistent smoothing state
// to zero and is called whenever the capture state leaves Streaming
// and on mode switches, so a reconnect never replays stale levels.
type Mode interface {
	Name() string
	Draw(s surface.Surface, f *frame.Frame)
	Reset()
}

// Palette describes the registered color pairs: Size gradient entries
// at indices 0..Size-1 (low to high amplitude) followed by the
// edge/accent pair.
type Palette struct {
	Size int
	Edge int
}

// NewPalette describes a gradient of n entries with the edge pair
// registered right after it.
func NewPalette(n int) Palette {
	if n < 1 {
		n = 1
	}
	return Palette{Size: n, Edge: n}
}

// ByAmplitude picks the gradient pair for an amplitude in [0,1].
func (p Palette) ByAmplitude(level float64) int {
	return dsp.QuantizeIndex(level, p.Size)
}

// vline fills cells in the column x from y0 to y1 inclusive.
func vline(s surface.Surface, x, y0, y1 int, glyph rune, pair int, attr surface.Attr) {
	for y := y0; y <= y1; y++ {
		s.SetCell(x, y, glyph, pair, attr)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
