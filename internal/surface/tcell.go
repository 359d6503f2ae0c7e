package surface

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/hamzabk/termscope/internal/config"
)

// Terminal renders the cell grid on a tcell screen. It also owns the
// terminal's input: the app polls key and resize events through it.
type Terminal struct {
	screen tcell.Screen
	styles []tcell.Style
}

// NewTerminal initializes tcell and registers one style per color
// pair, in the order given.
func NewTerminal(pairs []config.ColorPair) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.HideCursor()

	return &Terminal{
		screen: screen,
		styles: buildStyles(pairs),
	}, nil
}

func buildStyles(pairs []config.ColorPair) []tcell.Style {
	styles := make([]tcell.Style, len(pairs))
	for i, p := range pairs {
		styles[i] = tcell.StyleDefault.
			Foreground(mapColor(p.FG)).
			Background(mapColor(p.BG))
	}
	return styles
}

func mapColor(c config.Color) tcell.Color {
	if c == config.Default {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(c))
}

func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, glyph rune, pair int, attr Attr) {
	if pair < 0 || pair >= len(t.styles) {
		pair = 0
	}
	style := t.styles[pair]
	if attr&AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if attr&AttrBold != 0 {
		style = style.Bold(true)
	}
	t.screen.SetContent(x, y, glyph, nil, style)
}

func (t *Terminal) Clear() {
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.screen.Show()
}

// PollEvent blocks until the next key/resize event.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Interrupt posts a wakeup so a goroutine blocked in PollEvent
// returns during shutdown.
func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Fini restores the terminal.
func (t *Terminal) Fini() {
	t.screen.Fini()
}
