//go:build !sdl

package surface

import (
	"errors"

	"github.com/hamzabk/termscope/internal/config"
)

// SDLMirror is unavailable without the sdl build tag.
type SDLMirror struct{}

// NewSDLMirror always fails in non-SDL builds.
func NewSDLMirror(pairs []config.ColorPair, cols, rows int) (*SDLMirror, error) {
	return nil, errors.New("SDL mirror not enabled; rebuild with -tags sdl")
}

func (s *SDLMirror) Size() (int, int)                                  { return 0, 0 }
func (s *SDLMirror) SetCell(x, y int, glyph rune, pair int, attr Attr) {}
func (s *SDLMirror) Clear()                                            {}
func (s *SDLMirror) Show()                                             {}

// Close is a no-op without the sdl build tag.
func (s *SDLMirror) Close() {}

// SupportsSDL reports whether the binary was built with the SDL
// mirror.
func SupportsSDL() bool { return false }
