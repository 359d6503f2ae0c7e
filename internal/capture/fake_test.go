package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzabk/termscope/internal/frame"
)

func TestFrameIntervalMatchesAudioRate(t *testing.T) {
	// 1024 sample pairs at 44100 Hz last ~23.2 ms.
	assert.InDelta(t, float64(frame.Frames)/frame.SampleRate,
		frameInterval.Seconds(), 1e-9)
	assert.Greater(t, frameInterval, time.Duration(0))
}

func TestFakeProducesStereoSignal(t *testing.T) {
	f := NewFake()
	require.NoError(t, f.Open())
	defer f.Close()

	var out frame.Frame
	require.NoError(t, f.ReadFrame(&out))

	assert.Greater(t, out.Peak(frame.Left), 0.0)
	assert.Greater(t, out.Peak(frame.Right), 0.0)
}

func TestFakeStopUnblocksRead(t *testing.T) {
	f := NewFake()
	require.NoError(t, f.Open())
	f.RequestStop()

	var out frame.Frame
	err := f.ReadFrame(&out)
	assert.ErrorIs(t, err, ErrStopped)
}
