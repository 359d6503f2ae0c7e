package vis

import (
	"github.com/hamzabk/termscope/internal/dsp"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

const (
	// numBars is the fixed segment count per channel.
	numBars = 32
	// barGain stretches typical music levels toward the full band
	// height; the result is clamped, never wrapped.
	barGain = 1.5
	// barSpacing is the blank column between bars.
	barSpacing = 1
)

// Bars partitions each channel's samples into equal segments and
// shows one RMS-driven bar per segment, left channel growing up from
// the center line, right channel growing down from it.
type Bars struct {
	palette Palette
	env     [frame.Channels][numBars]dsp.EnvelopeFollower
	color   [frame.Channels][numBars]dsp.ColorDecay
}

// NewBars builds the bar graph mode.
func NewBars(palette Palette, decay float64) *Bars {
	b := &Bars{palette: palette}
	for ch := range b.env {
		for i := range b.env[ch] {
			b.env[ch][i] = dsp.NewEnvelopeFollower(decay)
			b.color[ch][i] = dsp.NewColorDecay(decay)
		}
	}
	return b
}

func (b *Bars) Name() string { return "Bar Graph" }

// Reset zeroes every bar's smoothing state immediately.
func (b *Bars) Reset() {
	for ch := range b.env {
		for i := range b.env[ch] {
			b.env[ch][i].Reset()
			b.color[ch][i].Reset()
		}
	}
}

func (b *Bars) Draw(s surface.Surface, f *frame.Frame) {
	width, height := s.Size()
	channelHeight := height / 2
	if width < 1 || channelHeight < 1 {
		return
	}

	for ch := 0; ch < frame.Channels; ch++ {
		for bar := 0; bar < numBars; bar++ {
			level := b.env[ch][bar].Update(f.SegmentRMS(ch, bar, numBars))
			b.color[ch][bar].Update(level)
			pair := b.color[ch][bar].Index(b.palette.Size)
			drawMirrorBar(s, ch, bar, level, channelHeight, width, pair)
		}
	}
}

// drawMirrorBar renders one bar of a center-mirrored 32-bar display:
// the left channel rises from the center line through the top band,
// the right channel falls from it through the bottom band.
func drawMirrorBar(s surface.Surface, ch, bar int, level float64, channelHeight, width, pair int) {
	barHeight := int(level * float64(channelHeight) * barGain)
	if barHeight > channelHeight {
		barHeight = channelHeight
	}
	if barHeight == 0 {
		return
	}

	barWidth := (width - numBars + 1) / numBars
	if barWidth < 1 {
		barWidth = 1
	}
	x0 := bar * (barWidth + barSpacing)

	for col := 0; col < barWidth; col++ {
		x := x0 + col
		if x >= width {
			break
		}
		if ch == frame.Left {
			vline(s, x, channelHeight-barHeight, channelHeight-1, ' ', pair, surface.AttrReverse)
		} else {
			vline(s, x, channelHeight, channelHeight+barHeight-1, ' ', pair, surface.AttrReverse)
		}
	}
}
