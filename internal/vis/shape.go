package vis

import (
	"math"

	"github.com/hamzabk/termscope/internal/config"
	"github.com/hamzabk/termscope/internal/dsp"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

const (
	// expandGain scales the envelope level into the vertex expansion
	// factor: a full-scale signal grows the shape by half its size.
	expandGain = 0.5
	// distortGain is how far, in shape units, a full-scale sample
	// pushes an outline point outward.
	distortGain = 0.35
	// distortRays is the number of rays cast around the shape center.
	// Each ray samples the frame at its own offset, so the outline
	// wobbles with the waveform rather than pulsing uniformly.
	distortRays = 256
	// cellAspect compensates for terminal cells being roughly twice as
	// tall as they are wide.
	cellAspect = 2.0
	// shapeFill leaves a margin so an expanded shape stays on screen.
	shapeFill = 0.7
)

// Shape renders one user-defined set of closed polygons, reacting to
// the mono signal either by scaling every vertex outward (expand) or
// by displacing the outline per sample (distort).
type Shape struct {
	palette Palette
	def     config.Shape
	env     dsp.EnvelopeFollower
	color   dsp.ColorDecay
	mono    []float64
}

// NewShape builds a mode for one configured shape.
func NewShape(palette Palette, def config.Shape, decay float64) *Shape {
	return &Shape{
		palette: palette,
		def:     def,
		env:     dsp.NewEnvelopeFollower(decay),
		color:   dsp.NewColorDecay(decay),
		mono:    make([]float64, frame.Frames),
	}
}

func (sh *Shape) Name() string { return sh.def.Name }

// Reset zeroes the level and color envelopes immediately.
func (sh *Shape) Reset() {
	sh.env.Reset()
	sh.color.Reset()
}

func (sh *Shape) Draw(s surface.Surface, f *frame.Frame) {
	width, height := s.Size()
	if width < 2 || height < 2 {
		return
	}
	proj := newProjection(width, height)

	// Mono mix drives both variants: peak for the envelope, raw
	// samples for per-ray displacement.
	f.MonoFloat(sh.mono)
	peak := math.Max(f.Peak(frame.Left), f.Peak(frame.Right))
	level := sh.env.Update(peak)
	sh.color.Update(level)
	pair := sh.color.Index(sh.palette.Size)

	switch sh.def.Variant {
	case config.Distort:
		for _, poly := range sh.def.Polygons {
			sh.drawDistorted(s, proj, poly, pair)
		}
	default:
		scale := 1 + level*expandGain
		for _, poly := range sh.def.Polygons {
			sh.drawExpanded(s, proj, poly, scale, pair)
		}
	}
}

// drawExpanded draws the polygon outline with every vertex scaled
// outward from the shape-space origin.
func (sh *Shape) drawExpanded(s surface.Surface, proj projection, poly []config.Point, scale float64, pair int) {
	n := len(poly)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		ax, ay := a.X*scale, a.Y*scale
		bx, by := b.X*scale, b.Y*scale
		drawSegment(s, proj, ax, ay, bx, by, '·', pair)
	}
}

// drawDistorted casts one ray per angle step from the origin, finds the
// nearest edge intersection, and pushes that point outward by the
// instantaneous sample amplitude before plotting it.
func (sh *Shape) drawDistorted(s surface.Surface, proj projection, poly []config.Point, pair int) {
	n := len(poly)
	if n < 3 {
		return
	}
	for ray := 0; ray < distortRays; ray++ {
		theta := 2 * math.Pi * float64(ray) / distortRays
		dx, dy := math.Cos(theta), math.Sin(theta)

		// Nearest intersection of the ray with any polygon edge.
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			a := poly[i]
			b := poly[(i+1)%n]
			if t, ok := raySegment(dx, dy, a, b); ok && t < best {
				best = t
			}
		}
		if math.IsInf(best, 1) {
			continue
		}

		amp := sh.mono[ray*frame.Frames/distortRays]
		r := best + math.Abs(amp)*distortGain
		x, y := proj.cell(dx*r, dy*r)
		s.SetCell(x, y, '·', pair, surface.AttrNone)
	}
}

// raySegment solves the 2D parametric intersection of the ray
// (t*dx, t*dy), t >= 0 with the segment a-b. It reports the ray
// parameter t of the hit. Parallel lines (near-zero determinant) and
// hits outside the segment count as no intersection.
func raySegment(dx, dy float64, a, b config.Point) (float64, bool) {
	ex, ey := b.X-a.X, b.Y-a.Y
	det := dx*ey - dy*ex
	if math.Abs(det) < 1e-9 {
		return 0, false
	}
	t := (a.X*ey - a.Y*ex) / det
	u := (a.X*dy - a.Y*dx) / det
	if t < 0 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

// drawSegment plots the line between two shape-space points by
// sampling it at cell resolution.
func drawSegment(s surface.Surface, proj projection, ax, ay, bx, by float64, glyph rune, pair int) {
	x0, y0 := proj.cell(ax, ay)
	x1, y1 := proj.cell(bx, by)
	steps := clampInt(maxAbs(x1-x0, y1-y0), 1, 4096)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := proj.cell(ax+(bx-ax)*t, ay+(by-ay)*t)
		s.SetCell(x, y, glyph, pair, surface.AttrNone)
	}
}

// projection maps shape space, where polygons live roughly inside the
// unit circle, onto the cell grid with the aspect correction applied.
type projection struct {
	cx, cy float64
	scale  float64
}

func newProjection(width, height int) projection {
	sy := float64(height) / 2
	sx := float64(width) / 2 / cellAspect
	return projection{
		cx:    float64(width) / 2,
		cy:    float64(height) / 2,
		scale: math.Min(sx, sy) * shapeFill,
	}
}

// cell converts a shape-space point to cell coordinates. Positive Y in
// shape space points up, rows grow downward.
func (p projection) cell(x, y float64) (int, int) {
	return int(math.Round(p.cx + x*p.scale*cellAspect)),
		int(math.Round(p.cy - y*p.scale))
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
