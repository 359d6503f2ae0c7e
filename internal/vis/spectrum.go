package vis

import (
	"github.com/hamzabk/termscope/internal/dsp"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

// SpectrumBars reuses the mirrored bar drawing with FFT band energies
// instead of time-domain segment RMS. The mono mix feeds both bands,
// mirrored around the center line.
type SpectrumBars struct {
	palette  Palette
	analyzer *dsp.Spectrum
	bands    []float64
	env      [numBars]dsp.EnvelopeFollower
	color    [numBars]dsp.ColorDecay
}

// NewSpectrumBars builds the spectrum mode.
func NewSpectrumBars(palette Palette, decay float64) *SpectrumBars {
	sb := &SpectrumBars{
		palette:  palette,
		analyzer: dsp.NewSpectrum(numBars),
	}
	sb.bands = make([]float64, sb.analyzer.Bands())
	for i := range sb.env {
		sb.env[i] = dsp.NewEnvelopeFollower(decay)
		sb.color[i] = dsp.NewColorDecay(decay)
	}
	return sb
}

func (sb *SpectrumBars) Name() string { return "Spectrum" }

// Reset zeroes every band's smoothing state immediately.
func (sb *SpectrumBars) Reset() {
	for i := range sb.env {
		sb.env[i].Reset()
		sb.color[i].Reset()
	}
}

func (sb *SpectrumBars) Draw(s surface.Surface, f *frame.Frame) {
	width, height := s.Size()
	channelHeight := height / 2
	if width < 1 || channelHeight < 1 {
		return
	}

	sb.analyzer.Analyze(f, sb.bands)
	for bar := 0; bar < numBars; bar++ {
		level := sb.env[bar].Update(sb.bands[bar])
		sb.color[bar].Update(level)
		pair := sb.color[bar].Index(sb.palette.Size)
		drawMirrorBar(s, frame.Left, bar, level, channelHeight, width, pair)
		drawMirrorBar(s, frame.Right, bar, level, channelHeight, width, pair)
	}
}
