package surface

// Cell is one drawn cell of a Mem surface.
type Cell struct {
	Glyph rune
	Pair  int
	Attr  Attr
	Set   bool
}

// Mem is an in-memory Surface used by the mode tests and anywhere a
// headless grid is handy.
type Mem struct {
	W, H  int
	Cells [][]Cell
	Shows int
}

// NewMem returns a cleared width×height grid.
func NewMem(width, height int) *Mem {
	m := &Mem{W: width, H: height}
	m.Clear()
	return m
}

func (m *Mem) Size() (int, int) {
	return m.W, m.H
}

func (m *Mem) SetCell(x, y int, glyph rune, pair int, attr Attr) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Cells[y][x] = Cell{Glyph: glyph, Pair: pair, Attr: attr, Set: true}
}

func (m *Mem) Clear() {
	m.Cells = make([][]Cell, m.H)
	for y := range m.Cells {
		m.Cells[y] = make([]Cell, m.W)
	}
}

func (m *Mem) Show() {
	m.Shows++
}

// SetCount returns how many cells are currently drawn.
func (m *Mem) SetCount() int {
	n := 0
	for _, row := range m.Cells {
		for _, c := range row {
			if c.Set {
				n++
			}
		}
	}
	return n
}
