package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzabk/termscope/internal/frame"
)

func TestSpectrumSilence(t *testing.T) {
	s := NewSpectrum(32)
	out := make([]float64, s.Bands())
	var f frame.Frame
	s.Analyze(&f, out)
	for b, v := range out {
		assert.Zero(t, v, "band %d", b)
	}
}

func TestSpectrumFullScaleSine(t *testing.T) {
	s := NewSpectrum(32)
	out := make([]float64, s.Bands())

	// Bin-aligned tone so the energy lands in a single FFT bin.
	const bin = 32
	hz := float64(bin) * frame.SampleRate / float64(frame.Frames)
	var f frame.Frame
	for i := 0; i < frame.Frames; i++ {
		v := int16(32767 * math.Sin(2*math.Pi*hz*float64(i)/frame.SampleRate))
		f.Samples[i*frame.Channels+frame.Left] = v
		f.Samples[i*frame.Channels+frame.Right] = v
	}
	s.Analyze(&f, out)

	peakBand, peakVal := 0, 0.0
	for b, v := range out {
		if v > peakVal {
			peakBand, peakVal = b, v
		}
	}
	require.InDelta(t, 1.0, peakVal, 0.1, "tone band should read near full scale")

	lo, hi := s.edges[peakBand], s.edges[peakBand+1]
	assert.True(t, lo <= bin && bin < hi,
		"tone in bin %d reported in band %d covering bins [%d,%d)", bin, peakBand, lo, hi)
}

func TestBandEdgesCoverAscending(t *testing.T) {
	edges := bandEdges(32, frame.Frames)
	require.Len(t, edges, 33)
	for i := 1; i < len(edges); i++ {
		assert.Greater(t, edges[i], edges[i-1], "edge %d", i)
	}
	assert.LessOrEqual(t, edges[len(edges)-1], frame.Frames/2)
}
