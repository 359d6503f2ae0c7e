package vis

import (
	"math"

	"github.com/hamzabk/termscope/internal/dsp"
	"github.com/hamzabk/termscope/internal/frame"
	"github.com/hamzabk/termscope/internal/surface"
)

const (
	// galaxySegments is the number of angular slices, each driven by
	// its own slice of the frame's samples.
	galaxySegments = 64
	// galaxyTrail is the number of particles plotted along each
	// segment's arm, fading toward the center.
	galaxyTrail = 6
	// galaxySpin is the base rotation per tick in radians; louder
	// signal spins faster.
	galaxySpin = 0.02
	// galaxySpinGain adds rotation proportional to the overall level.
	galaxySpinGain = 0.12
	// galaxyCurl bends the arms into a spiral.
	galaxyCurl = 0.9
)

// Galaxy is a radial particle field: each angular segment's radius
// follows the RMS of its own slice of the frame, the whole field
// slowly rotates, and louder audio both pushes particles outward and
// spins the field faster.
type Galaxy struct {
	palette Palette
	phase   float64
	overall dsp.EnvelopeFollower
	env     [galaxySegments]dsp.EnvelopeFollower
	color   [galaxySegments]dsp.ColorDecay
}

// NewGalaxy builds the particle field mode.
func NewGalaxy(palette Palette, decay float64) *Galaxy {
	g := &Galaxy{palette: palette}
	g.overall = dsp.NewEnvelopeFollower(decay)
	for i := range g.env {
		g.env[i] = dsp.NewEnvelopeFollower(decay)
		g.color[i] = dsp.NewColorDecay(decay)
	}
	return g
}

func (g *Galaxy) Name() string { return "Galaxy" }

// Reset zeroes every segment's smoothing state and the rotation phase
// immediately.
func (g *Galaxy) Reset() {
	g.phase = 0
	g.overall.Reset()
	for i := range g.env {
		g.env[i].Reset()
		g.color[i].Reset()
	}
}

func (g *Galaxy) Draw(s surface.Surface, f *frame.Frame) {
	width, height := s.Size()
	if width < 2 || height < 2 {
		return
	}
	proj := newProjection(width, height)

	overall := g.overall.Update(math.Max(f.RMS(frame.Left), f.RMS(frame.Right)))
	g.phase += galaxySpin + overall*galaxySpinGain
	if g.phase > 2*math.Pi {
		g.phase -= 2 * math.Pi
	}

	for seg := 0; seg < galaxySegments; seg++ {
		// Alternate channels around the circle so both sides of the
		// stereo image are visible.
		ch := seg % frame.Channels
		level := g.env[seg].Update(f.SegmentRMS(ch, seg/frame.Channels, galaxySegments/frame.Channels))
		g.color[seg].Update(level)
		pair := g.color[seg].Index(g.palette.Size)

		base := 2 * math.Pi * float64(seg) / galaxySegments
		head := 0.15 + level*0.85
		for p := 0; p < galaxyTrail; p++ {
			// Trail particles sit behind the head, closer to the
			// center and further back along the spiral.
			r := head * (1 - float64(p)/float64(galaxyTrail)*0.6)
			theta := base + g.phase + galaxyCurl*r
			x, y := proj.cell(r*math.Cos(theta), r*math.Sin(theta))
			glyph := '·'
			if p == 0 {
				glyph = '*'
			}
			s.SetCell(x, y, glyph, pair, surface.AttrNone)
		}
	}
}
