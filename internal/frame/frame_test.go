package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleInterleaving(t *testing.T) {
	f := &Frame{}
	f.Samples[0] = 100  // left sample 0
	f.Samples[1] = -100 // right sample 0
	f.Samples[2] = 200  // left sample 1

	assert.Equal(t, int16(100), f.Sample(Left, 0))
	assert.Equal(t, int16(-100), f.Sample(Right, 0))
	assert.Equal(t, int16(200), f.Sample(Left, 1))
}

func TestPeakNormalization(t *testing.T) {
	f := &Frame{}
	assert.Equal(t, 0.0, f.Peak(Left))

	f.Samples[10*Channels+Left] = math.MaxInt16
	assert.Equal(t, 1.0, f.Peak(Left))
	assert.Equal(t, 0.0, f.Peak(Right))

	// The most negative sample has no positive counterpart and must
	// still clamp to full scale, not overflow.
	g := &Frame{}
	g.Samples[Right] = math.MinInt16
	assert.Equal(t, 1.0, g.Peak(Right))
}

func TestRMSOfSquareWave(t *testing.T) {
	f := &Frame{}
	for i := 0; i < Frames; i++ {
		v := int16(math.MaxInt16)
		if i%2 == 1 {
			v = -math.MaxInt16
		}
		f.Samples[i*Channels+Left] = v
	}
	// A full-scale square wave has RMS equal to its amplitude.
	assert.InDelta(t, 1.0, f.RMS(Left), 1e-9)
}

func TestSegmentRMSIsolatesSegments(t *testing.T) {
	f := &Frame{}
	// Fill only the third of 32 segments.
	start := 2 * Frames / 32
	end := 3 * Frames / 32
	for i := start; i < end; i++ {
		f.Samples[i*Channels+Left] = math.MaxInt16
	}

	assert.InDelta(t, 1.0, f.SegmentRMS(Left, 2, 32), 1e-9)
	assert.Equal(t, 0.0, f.SegmentRMS(Left, 1, 32))
	assert.Equal(t, 0.0, f.SegmentRMS(Left, 3, 32))
}

func TestMinMax(t *testing.T) {
	f := &Frame{}
	f.Samples[4*Channels+Left] = 300
	f.Samples[6*Channels+Left] = -500

	minS, maxS := f.MinMax(Left, 0, 10)
	assert.Equal(t, int16(-500), minS)
	assert.Equal(t, int16(300), maxS)
}

func TestMonoFloatAveragesChannels(t *testing.T) {
	f := &Frame{}
	f.Samples[Left] = math.MaxInt16
	f.Samples[Right] = 0

	dst := make([]float64, Frames)
	f.MonoFloat(dst)
	assert.InDelta(t, 0.5, dst[0], 1e-4)
	assert.Equal(t, 0.0, dst[1])
}
