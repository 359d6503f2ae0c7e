package vis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamzabk/termscope/internal/config"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

func constFrame(v int16) *frame.Frame {
	f := &frame.Frame{}
	for i := range f.Samples {
		f.Samples[i] = v
	}
	return f
}

func sineFrame(amp float64) *frame.Frame {
	f := &frame.Frame{}
	for i := 0; i < frame.Frames; i++ {
		v := int16(amp * frame.MaxSample * math.Sin(2*math.Pi*float64(i)/64))
		f.Samples[i*frame.Channels+frame.Left] = v
		f.Samples[i*frame.Channels+frame.Right] = v
	}
	return f
}

func TestPaletteLayout(t *testing.T) {
	p := NewPalette(4)
	assert.Equal(t, 4, p.Size)
	assert.Equal(t, 4, p.Edge)
	assert.Equal(t, 0, p.ByAmplitude(0))
	assert.Equal(t, 3, p.ByAmplitude(1))
}

func TestOscilloscopeSilenceDrawsCenterLines(t *testing.T) {
	s := surface.NewMem(40, 20)
	o := NewOscilloscope(NewPalette(3))
	o.Draw(s, &frame.Frame{})

	// Every column gets exactly one cell per band, on the band's
	// center row.
	for x := 0; x < 40; x++ {
		assert.True(t, s.Cells[5][x].Set, "top band column %d", x)
		assert.True(t, s.Cells[15][x].Set, "bottom band column %d", x)
	}
	assert.Equal(t, 80, s.SetCount())
}

func TestOscilloscopeEdgeColumnsUseEdgePair(t *testing.T) {
	s := surface.NewMem(100, 20)
	p := NewPalette(3)
	o := NewOscilloscope(p)
	o.Draw(s, sineFrame(0.9))

	// width/20 = 5 edge columns on each side.
	for x := 0; x < 5; x++ {
		for _, col := range []int{x, 99 - x} {
			for y := 0; y < 20; y++ {
				if s.Cells[y][col].Set {
					assert.Equal(t, p.Edge, s.Cells[y][col].Pair, "column %d", col)
				}
			}
		}
	}
}

func TestMeterBarLengthTracksEnvelope(t *testing.T) {
	s := surface.NewMem(50, 10)
	m := NewMeter(NewPalette(3), 0.025)
	m.Draw(s, constFrame(math.MaxInt16))

	// First tick from silence: level = 0.6, so 30 of 50 columns.
	count := 0
	for x := 0; x < 50; x++ {
		if s.Cells[0][x].Set {
			count++
		}
	}
	assert.Equal(t, 30, count)

	// Right channel fills from the right edge.
	assert.True(t, s.Cells[5][49].Set)
	assert.False(t, s.Cells[5][0].Set)
}

func TestMeterResetDropsToZero(t *testing.T) {
	m := NewMeter(NewPalette(3), 0.025)
	s := surface.NewMem(50, 10)
	m.Draw(s, constFrame(math.MaxInt16))
	m.Reset()

	s.Clear()
	m.Draw(s, &frame.Frame{})
	assert.Equal(t, 0, s.SetCount(), "reset meter must not draw from silence")
}

func TestBarsMirrorAroundCenter(t *testing.T) {
	s := surface.NewMem(64, 20)
	b := NewBars(NewPalette(3), 0.025)
	b.Draw(s, constFrame(math.MaxInt16))

	top, bottom := 0, 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 64; x++ {
			if !s.Cells[y][x].Set {
				continue
			}
			if y < 10 {
				top++
			} else {
				bottom++
			}
		}
	}
	assert.Greater(t, top, 0)
	assert.Equal(t, top, bottom, "bands must mirror for identical channels")
}

func TestBarsHeightClampedToBand(t *testing.T) {
	s := surface.NewMem(64, 20)
	b := NewBars(NewPalette(3), 0.025)
	for i := 0; i < 20; i++ {
		s.Clear()
		b.Draw(s, constFrame(math.MaxInt16))
	}
	// Gain pushes the bar past the band height; it must clamp at the
	// band edge, never wrap into the other channel's band.
	assert.True(t, s.Cells[0][0].Set)
	assert.True(t, s.Cells[19][0].Set)
}

func TestSpectrumSilenceDrawsNothing(t *testing.T) {
	s := surface.NewMem(64, 20)
	sb := NewSpectrumBars(NewPalette(3), 0.025)
	sb.Draw(s, &frame.Frame{})
	assert.Equal(t, 0, s.SetCount())
}

func TestSpectrumToneRaisesOneBandMost(t *testing.T) {
	s := surface.NewMem(64, 20)
	sb := NewSpectrumBars(NewPalette(3), 0.025)
	for i := 0; i < 10; i++ {
		s.Clear()
		sb.Draw(s, sineFrame(0.9))
	}
	assert.Greater(t, s.SetCount(), 0)
}

func TestRaySegmentHitsFacingEdge(t *testing.T) {
	a := config.Point{X: 1, Y: -1}
	b := config.Point{X: 1, Y: 1}

	tHit, ok := raySegment(1, 0, a, b)
	require.True(t, ok)
	assert.InDelta(t, 1.0, tHit, 1e-12)

	// Ray pointing away from the edge.
	_, ok = raySegment(-1, 0, a, b)
	assert.False(t, ok)

	// Ray parallel to the edge.
	_, ok = raySegment(0, 1, a, b)
	assert.False(t, ok)

	// Ray missing the segment's extent.
	_, ok = raySegment(math.Cos(math.Pi/3), math.Sin(math.Pi/3), a, b)
	assert.False(t, ok)
}

func square() []config.Point {
	return []config.Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
}

func TestShapeExpandDrawsOutline(t *testing.T) {
	def := config.Shape{Name: "Box", Variant: config.Expand, Polygons: [][]config.Point{square()}}
	s := surface.NewMem(80, 24)
	sh := NewShape(NewPalette(3), def, 0.025)
	sh.Draw(s, &frame.Frame{})
	assert.Greater(t, s.SetCount(), 0)

	// Silence keeps the shape at its base size, centered: nothing may
	// touch the outermost rows.
	for x := 0; x < 80; x++ {
		assert.False(t, s.Cells[0][x].Set)
		assert.False(t, s.Cells[23][x].Set)
	}
}

func TestShapeExpandGrowsWithSignal(t *testing.T) {
	def := config.Shape{Name: "Box", Variant: config.Expand, Polygons: [][]config.Point{square()}}
	base := surface.NewMem(80, 24)
	NewShape(NewPalette(3), def, 0.025).Draw(base, &frame.Frame{})

	loud := surface.NewMem(80, 24)
	sh := NewShape(NewPalette(3), def, 0.025)
	for i := 0; i < 10; i++ {
		loud.Clear()
		sh.Draw(loud, constFrame(math.MaxInt16))
	}

	topBase := firstSetRow(base)
	topLoud := firstSetRow(loud)
	assert.Less(t, topLoud, topBase, "expanded shape must reach higher rows")
}

func TestShapeDistortPlotsOutline(t *testing.T) {
	def := config.Shape{Name: "Box", Variant: config.Distort, Polygons: [][]config.Point{square()}}
	s := surface.NewMem(80, 24)
	sh := NewShape(NewPalette(3), def, 0.025)
	sh.Draw(s, sineFrame(0.5))
	assert.Greater(t, s.SetCount(), 0)
}

func TestGalaxyDrawsAndResets(t *testing.T) {
	g := NewGalaxy(NewPalette(3), 0.025)
	s := surface.NewMem(80, 24)
	g.Draw(s, constFrame(8000))
	assert.Greater(t, s.SetCount(), 0)

	g.Reset()
	s.Clear()
	g.Draw(s, &frame.Frame{})
	// Quiet segments still plot their minimum-radius heads, but the
	// rotation phase restarts from zero.
	assert.InDelta(t, galaxySpin, g.phase, 1e-9)
}

func firstSetRow(s *surface.Mem) int {
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			if s.Cells[y][x].Set {
				return y
			}
		}
	}
	return s.H
}
