// Package term is a display panel that draws into a terminal, two
// pixels to a character cell.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"monoscreen.org/image/mono"
)

// upperHalf is drawn with the upper pixel in the foreground color and
// the lower pixel in the background color.
const upperHalf = '▀'

var (
	Foreground = tcell.NewHexColor(0x000000)
	Background = tcell.NewHexColor(0xff8200)
)

type Panel struct {
	scr tcell.Screen
}

// Open initializes the controlling terminal. Key events that ask to
// quit (q, Escape or Ctrl-C) call onQuit.
func Open(onQuit func()) (*Panel, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	if err := scr.Init(); err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	scr.HideCursor()
	scr.Clear()
	go func() {
		for {
			ev := scr.PollEvent()
			if ev == nil {
				// Fini was called.
				return
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				scr.Sync()
			}
			if quit(ev) {
				onQuit()
			}
		}
	}()
	return New(scr), nil
}

// New returns a panel drawing to an initialized screen.
func New(scr tcell.Screen) *Panel {
	return &Panel{scr: scr}
}

func quit(ev tcell.Event) bool {
	k, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch k.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return k.Rune() == 'q'
	}
	return false
}

func (p *Panel) Close() {
	p.scr.Fini()
}

func (p *Panel) Draw(img *mono.Image) error {
	b := img.Bounds()
	for y := 0; y < (b.Dy()+1)/2; y++ {
		for x := 0; x < b.Dx(); x++ {
			top := img.BitAt(b.Min.X+x, b.Min.Y+2*y)
			bottom := img.BitAt(b.Min.X+x, b.Min.Y+2*y+1)
			st := tcell.StyleDefault.Foreground(pixel(top)).Background(pixel(bottom))
			p.scr.SetContent(x, y, upperHalf, nil, st)
		}
	}
	p.scr.Show()
	return nil
}

func pixel(set bool) tcell.Color {
	if set {
		return Foreground
	}
	return Background
}
