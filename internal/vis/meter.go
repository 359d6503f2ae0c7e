package vis

import (
	"github.com/hamzabk/termscope/internal/dsp"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

// Meter is the classic VU display: one horizontal bar per channel,
// left channel growing rightward in the top band, right channel
// growing leftward in the bottom band, with a reverse-video peak cap.
type Meter struct {
	palette Palette
	energy  dsp.EnergyMode
	env     [frame.Channels]dsp.EnvelopeFollower
	color   [frame.Channels]dsp.ColorDecay
}

// NewMeter builds the meter mode. decay overrides the release rate
// for both the level and color envelopes.
func NewMeter(palette Palette, decay float64) *Meter {
	m := &Meter{palette: palette}
	for ch := range m.env {
		m.env[ch] = dsp.NewEnvelopeFollower(decay)
		m.color[ch] = dsp.NewColorDecay(decay)
	}
	return m
}

func (m *Meter) Name() string { return "VU Meter" }

// Energy returns the active energy mode for the status bar.
func (m *Meter) Energy() dsp.EnergyMode { return m.energy }

// SetEnergy switches between peak and RMS metering.
func (m *Meter) SetEnergy(mode dsp.EnergyMode) { m.energy = mode }

// Levels returns both channels' current smoothed levels.
func (m *Meter) Levels() [frame.Channels]float64 {
	var out [frame.Channels]float64
	for ch := range m.env {
		out[ch] = m.env[ch].Level()
	}
	return out
}

// Reset zeroes both channels' smoothing state immediately.
func (m *Meter) Reset() {
	for ch := range m.env {
		m.env[ch].Reset()
		m.color[ch].Reset()
	}
}

func (m *Meter) Draw(s surface.Surface, f *frame.Frame) {
	width, height := s.Size()
	channelHeight := height / 2
	if width < 1 || channelHeight < 1 {
		return
	}

	for ch := 0; ch < frame.Channels; ch++ {
		level := m.env[ch].Update(dsp.Energy(f, ch, m.energy))
		m.color[ch].Update(level)
		pair := m.color[ch].Index(m.palette.Size)

		barWidth := int(level * float64(width))
		if barWidth > width {
			barWidth = width
		}

		yOffset := ch * channelHeight
		for y := 0; y < channelHeight; y++ {
			for i := 0; i < barWidth; i++ {
				x := i
				if ch == frame.Right {
					x = width - 1 - i
				}
				// Reverse video paints the pair's foreground as the
				// fill, so the bar stays visible on default-background
				// gradients.
				s.SetCell(x, y+yOffset, ' ', pair, surface.AttrReverse)
			}
		}

		if barWidth > 0 {
			capX := barWidth - 1
			if ch == frame.Right {
				capX = width - barWidth
			}
			vline(s, capX, yOffset, yOffset+channelHeight-1, '▌', pair, surface.AttrNone)
		}
	}
}
