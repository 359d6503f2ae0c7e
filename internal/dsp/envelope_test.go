package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzabk/termscope/internal/frame"
)

func TestEnvelopeStepResponse(t *testing.T) {
	e := NewEnvelopeFollower(0)

	// Rising: level after n ticks of a 0->1 step is 1-(1-RiseFactor)^n.
	for n := 1; n <= 12; n++ {
		got := e.Update(1.0)
		want := 1.0 - math.Pow(1.0-RiseFactor, float64(n))
		assert.InDelta(t, want, got, 1e-12, "tick %d", n)
	}
}

func TestEnvelopeLinearRelease(t *testing.T) {
	e := NewEnvelopeFollower(0.025)
	e.Update(1.0)
	prev := e.Level()

	for tick := 0; prev > 0; tick++ {
		got := e.Update(0)
		want := prev - 0.025
		if want < 0 {
			want = 0
		}
		require.InDelta(t, want, got, 1e-12, "tick %d", tick)
		prev = got
		require.Less(t, tick, 100, "release never clamped at zero")
	}
	assert.Zero(t, e.Level())
	assert.Zero(t, e.Update(0), "level must stay clamped at zero")
}

func TestEnvelopeConvergesOnFullScaleSine(t *testing.T) {
	var f frame.Frame
	for i := 0; i < frame.Frames; i++ {
		s := int16(32767 * math.Sin(2*math.Pi*float64(i)/64))
		f.Samples[i*frame.Channels+frame.Left] = s
		f.Samples[i*frame.Channels+frame.Right] = s
	}

	e := NewEnvelopeFollower(0)
	for tick := 0; tick < 10; tick++ {
		e.Update(Energy(&f, frame.Left, Peak))
	}
	assert.InDelta(t, 1.0, e.Level(), 1e-3)
}

func TestEnvelopeResetIsImmediate(t *testing.T) {
	e := NewEnvelopeFollower(0)
	e.Update(1.0)
	require.Positive(t, e.Level())
	e.Reset()
	assert.Zero(t, e.Level())
}

func TestEnergyModes(t *testing.T) {
	var f frame.Frame
	for i := range f.Samples {
		f.Samples[i] = 32767
	}
	assert.InDelta(t, 1.0, Energy(&f, frame.Left, Peak), 1e-9)
	assert.InDelta(t, 1.0, Energy(&f, frame.Right, RMS), 1e-9)

	var silent frame.Frame
	assert.Zero(t, Energy(&silent, frame.Left, Peak))
	assert.Zero(t, Energy(&silent, frame.Left, RMS))
}

func TestEnergyModeNames(t *testing.T) {
	assert.Equal(t, "Peak", Peak.String())
	assert.Equal(t, "RMS", RMS.String())
}
