// Package sixel is a display panel that draws frames as sixel graphics
// at the top left corner of a terminal.
package sixel

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/mattn/go-sixel"
	"monoscreen.org/image/mono"
)

var palette = color.Palette{
	color.RGBA{R: 0xff, G: 0x82, B: 0x00, A: 0xff},
	color.RGBA{A: 0xff},
}

// cursorHome moves the cursor to the upper left corner.
const cursorHome = "\x1b[H"

type Panel struct {
	w     io.Writer
	scale int
	buf   bytes.Buffer
}

func New(w io.Writer, scale int) *Panel {
	return &Panel{w: w, scale: scale}
}

func (p *Panel) Draw(img *mono.Image) error {
	p.buf.Reset()
	p.buf.WriteString(cursorHome)
	enc := sixel.NewEncoder(&p.buf)
	if err := enc.Encode(img.Paletted(palette, p.scale)); err != nil {
		return fmt.Errorf("sixel: %w", err)
	}
	_, err := p.w.Write(p.buf.Bytes())
	return err
}
