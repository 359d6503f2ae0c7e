// Package dsp holds the per-meter smoothing state that turns raw frame
// energy into stable, flicker-free levels, plus the FFT band split used
// by the spectrum mode.
package dsp

import "github.com/hamzabk/termscope/internal/frame"

const (
	// RiseFactor is the fraction of the gap to the instantaneous energy
	// closed on every tick the signal is rising. Attack is geometric and
	// fast; release is linear and slow.
	RiseFactor = 0.6
	// DefaultDecayFactor is the per-tick linear release rate. It is a
	// visual tuning knob, overridable from the config file.
	DefaultDecayFactor = 0.025
)

// EnergyMode selects how instantaneous energy is computed from samples.
type EnergyMode int

const (
	Peak EnergyMode = iota
	RMS
)

func (m EnergyMode) String() string {
	if m == RMS {
		return "RMS"
	}
	return "Peak"
}

// Energy returns one channel's instantaneous energy in [0,1] under the
// given mode.
func Energy(f *frame.Frame, ch int, mode EnergyMode) float64 {
	if mode == RMS {
		return f.RMS(ch)
	}
	return f.Peak(ch)
}

// EnvelopeFollower smooths instantaneous energy into a meter level.
// One instance belongs to exactly one visual element and is only ever
// touched by the render goroutine.
type EnvelopeFollower struct {
	level float64
	decay float64
}

// NewEnvelopeFollower returns a follower with the given per-tick decay;
// a non-positive decay selects DefaultDecayFactor.
func NewEnvelopeFollower(decay float64) EnvelopeFollower {
	if decay <= 0 {
		decay = DefaultDecayFactor
	}
	return EnvelopeFollower{decay: decay}
}

// Update advances the level by one tick toward instant and returns the
// new level. Rising input is chased geometrically, falling input
// releases linearly until clamped at zero.
func (e *EnvelopeFollower) Update(instant float64) float64 {
	if instant > e.level {
		e.level += (instant - e.level) * RiseFactor
	} else {
		e.level -= e.decay
		if e.level < 0 {
			e.level = 0
		}
	}
	return e.level
}

// Level returns the current smoothed level.
func (e *EnvelopeFollower) Level() float64 {
	return e.level
}

// Reset forces the level to zero immediately, bypassing the gradual
// release. Called whenever the capture state leaves Streaming so a dead
// input never shows a live-looking meter.
func (e *EnvelopeFollower) Reset() {
	e.level = 0
}
