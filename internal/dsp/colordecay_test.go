package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizeIndexBounds(t *testing.T) {
	assert.Equal(t, 0, QuantizeIndex(0.0, 8))
	assert.Equal(t, 7, QuantizeIndex(1.0, 8))
	assert.Equal(t, 0, QuantizeIndex(-0.5, 8))
	assert.Equal(t, 7, QuantizeIndex(1.5, 8))
	// A single-entry palette always yields that entry.
	assert.Equal(t, 0, QuantizeIndex(1.0, 1))
	assert.Equal(t, 0, QuantizeIndex(0.7, 0))
}

func TestQuantizeIndexMonotonic(t *testing.T) {
	const paletteSize = 6
	prev := 0
	// Integer steps so the loop really evaluates level 1.0 at the end.
	for i := 0; i <= 1000; i++ {
		level := float64(i) / 1000
		idx := QuantizeIndex(level, paletteSize)
		assert.GreaterOrEqual(t, idx, prev, "level %f", level)
		prev = idx
	}
	assert.Equal(t, paletteSize-1, prev)
}

func TestColorDecayTrailsLevel(t *testing.T) {
	c := NewColorDecay(0.025)

	// The fade level chases a rising target with the shared rise rule.
	got := c.Update(1.0)
	assert.InDelta(t, RiseFactor, got, 1e-12)

	// And releases linearly at its own rate once the target drops.
	before := got
	got = c.Update(0)
	assert.InDelta(t, before-0.025, got, 1e-12)
}

func TestColorDecayReset(t *testing.T) {
	c := NewColorDecay(0)
	c.Update(1.0)
	c.Reset()
	assert.Equal(t, 0, c.Index(16))
}
