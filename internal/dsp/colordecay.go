package dsp

// ColorDecay smooths a meter's level a second time and quantizes the
// result to a palette index. Keeping this separate from the level
// envelope lets a bar's height react fast while its color shifts
// gradually, so loud transients do not strobe through the gradient.
type ColorDecay struct {
	fade EnvelopeFollower
}

// NewColorDecay returns a color smoother with the given per-tick rate;
// non-positive selects DefaultDecayFactor.
func NewColorDecay(rate float64) ColorDecay {
	return ColorDecay{fade: NewEnvelopeFollower(rate)}
}

// Update advances the fade level toward the meter's current level using
// the same rise/release rule as the level envelope.
func (c *ColorDecay) Update(level float64) float64 {
	return c.fade.Update(level)
}

// Index quantizes the current fade level to an index in
// [0, paletteSize-1]. A single-entry palette always yields 0.
func (c *ColorDecay) Index(paletteSize int) int {
	return QuantizeIndex(c.fade.Level(), paletteSize)
}

// Reset drops the fade level to zero immediately.
func (c *ColorDecay) Reset() {
	c.fade.Reset()
}

// QuantizeIndex maps a level in [0,1] onto a palette index, clamped to
// the palette bounds.
func QuantizeIndex(level float64, paletteSize int) int {
	if paletteSize <= 1 {
		return 0
	}
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	idx := int(level * float64(paletteSize-1))
	if idx > paletteSize-1 {
		idx = paletteSize - 1
	}
	return idx
}
