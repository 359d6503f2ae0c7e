package vis

import (
	"math"

	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

// Oscilloscope draws the raw waveform, one channel per band. It holds
// no smoothing state: the waveform itself is the signal, and each
// column is colored by its own instantaneous amplitude.
type Oscilloscope struct {
	palette Palette
}

// NewOscilloscope builds the scope mode for the given palette.
func NewOscilloscope(palette Palette) *Oscilloscope {
	return &Oscilloscope{palette: palette}
}

func (o *Oscilloscope) Name() string { return "Oscilloscope" }

// Reset implements Mode; the scope carries no persistent state.
func (o *Oscilloscope) Reset() {}

func (o *Oscilloscope) Draw(s surface.Surface, f *frame.Frame) {
	width, height := s.Size()
	channelHeight := height / 2
	if width < 1 || channelHeight < 1 {
		return
	}

	edgeWidth := width / 20
	if edgeWidth > 5 {
		edgeWidth = 5
	}

	o.drawChannel(s, f, frame.Left, width, channelHeight, 0, edgeWidth)
	o.drawChannel(s, f, frame.Right, width, channelHeight, channelHeight, edgeWidth)
}

func (o *Oscilloscope) drawChannel(s surface.Surface, f *frame.Frame, ch, width, channelHeight, yOffset, edgeWidth int) {
	for x := 0; x < width; x++ {
		start := x * frame.Frames / width
		end := (x + 1) * frame.Frames / width
		if end <= start {
			end = start + 1
		}
		minS, maxS := f.MinMax(ch, start, end)

		// Column span around the band center, using the full 16-bit
		// range so a rail-to-rail signal fills the band exactly.
		const sampleRange = 65536.0
		top := channelHeight/2 - int(float64(maxS)/sampleRange*float64(channelHeight))
		bottom := channelHeight/2 - int(float64(minS)/sampleRange*float64(channelHeight))
		top = clampInt(top, 0, channelHeight-1)
		bottom = clampInt(bottom, 0, channelHeight-1)

		var pair int
		if x < edgeWidth || x >= width-edgeWidth {
			pair = o.palette.Edge
		} else {
			peak := math.Max(math.Abs(float64(minS)), math.Abs(float64(maxS))) / frame.MaxSample
			pair = o.palette.ByAmplitude(peak)
		}

		vline(s, x, top+yOffset, bottom+yOffset, '│', pair, surface.AttrNone)
	}
}
