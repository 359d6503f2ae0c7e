// Package surface abstracts the drawing target as a character-cell
// grid with a small fixed set of color pairs. The render modes only
// ever talk to this interface, so they test against an in-memory grid
// and run unchanged on tcell or the optional SDL mirror.
package surface

// Attr carries the cell attributes the modes need beyond color.
type Attr uint8

const (
	AttrNone Attr = 0
	AttrReverse Attr = 1 << iota
	AttrBold
)

// Surface is a character-cell grid. Pair indices refer to the color
// pairs the surface was built with: gradient entries first, then the
// edge/accent pair.
type Surface interface {
	Size() (width, height int)
	SetCell(x, y int, glyph rune, pair int, attr Attr)
	Clear()
	Show()
}

// Region exposes the top-left W×H cells of a surface as a surface of
// its own, so modes can draw into the area above the status bar
// without knowing it exists.
type Region struct {
	S    Surface
	W, H int
}

func (r Region) Size() (int, int) {
	return r.W, r.H
}

func (r Region) SetCell(x, y int, glyph rune, pair int, attr Attr) {
	if x < 0 || y < 0 || x >= r.W || y >= r.H {
		return
	}
	r.S.SetCell(x, y, glyph, pair, attr)
}

func (r Region) Clear() {
	r.S.Clear()
}

func (r Region) Show() {
	r.S.Show()
}

// Multi fans every draw out to a primary surface and any number of
// mirrors. Size comes from the primary; mirrors clip on their own.
type Multi struct {
	primary Surface
	mirrors []Surface
}

// NewMulti wraps primary with optional mirrors.
func NewMulti(primary Surface, mirrors ...Surface) *Multi {
	return &Multi{primary: primary, mirrors: mirrors}
}

func (m *Multi) Size() (int, int) {
	return m.primary.Size()
}

func (m *Multi) SetCell(x, y int, glyph rune, pair int, attr Attr) {
	m.primary.SetCell(x, y, glyph, pair, attr)
	for _, s := range m.mirrors {
		s.SetCell(x, y, glyph, pair, attr)
	}
}

func (m *Multi) Clear() {
	m.primary.Clear()
	for _, s := range m.mirrors {
		s.Clear()
	}
}

func (m *Multi) Show() {
	m.primary.Show()
	for _, s := range m.mirrors {
		s.Show()
	}
}
