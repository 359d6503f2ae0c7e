//go:build sdl

package surface

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/hamzabk/termscope/internal/config"
)

const (
	sdlCellW = 9
	sdlCellH = 18
)

// rgb holds the window colors for the eight terminal palette entries.
var sdlPalette = [8][3]uint8{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
}

// SDLMirror duplicates the cell grid into an SDL window, one filled
// rect per cell. Built only with -tags sdl, mirroring how the optional
// pixel output has always been packaged.
type SDLMirror struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	pairs    []config.ColorPair
	cols     int
	rows     int
}

// NewSDLMirror opens a window sized for the given grid.
func NewSDLMirror(pairs []config.ColorPair, cols, rows int) (*SDLMirror, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}
	window, err := sdl.CreateWindow(
		"termscope",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cols*sdlCellW), int32(rows*sdlCellH),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, err
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, err
	}
	return &SDLMirror{
		window:   window,
		renderer: renderer,
		pairs:    pairs,
		cols:     cols,
		rows:     rows,
	}, nil
}

func (s *SDLMirror) Size() (int, int) {
	return s.cols, s.rows
}

func (s *SDLMirror) SetCell(x, y int, glyph rune, pair int, attr Attr) {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows {
		return
	}
	if pair < 0 || pair >= len(s.pairs) {
		pair = 0
	}
	fg := colorRGB(s.pairs[pair].FG, 229, 229, 229)
	bg := colorRGB(s.pairs[pair].BG, 20, 20, 20)
	if attr&AttrReverse != 0 {
		fg, bg = bg, fg
	}

	rect := sdl.Rect{
		X: int32(x * sdlCellW),
		Y: int32(y * sdlCellH),
		W: sdlCellW,
		H: sdlCellH,
	}
	s.renderer.SetDrawColor(bg[0], bg[1], bg[2], 255)
	s.renderer.FillRect(&rect)
	if glyph != ' ' {
		// Approximate the glyph as an inset block in the foreground
		// color; the window is a mirror, not a terminal emulator.
		inset := sdl.Rect{X: rect.X + 2, Y: rect.Y + 4, W: sdlCellW - 4, H: sdlCellH - 8}
		s.renderer.SetDrawColor(fg[0], fg[1], fg[2], 255)
		s.renderer.FillRect(&inset)
	}
}

func colorRGB(c config.Color, defR, defG, defB uint8) [3]uint8 {
	if c < 0 || int(c) >= len(sdlPalette) {
		return [3]uint8{defR, defG, defB}
	}
	return sdlPalette[c]
}

func (s *SDLMirror) Clear() {
	s.renderer.SetDrawColor(20, 20, 20, 255)
	s.renderer.Clear()
}

func (s *SDLMirror) Show() {
	s.renderer.Present()
	// Keep the window responsive; quit requests only close the mirror
	// from the terminal side.
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
	}
}

// Close releases the window and the SDL video subsystem.
func (s *SDLMirror) Close() {
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
}

// SupportsSDL reports whether the binary was built with the SDL
// mirror.
func SupportsSDL() bool { return true }
