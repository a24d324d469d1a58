// Package pngdump is a display panel that writes frames as PNG images,
// colored like a backlit LCD.
package pngdump

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"monoscreen.org/image/mono"
)

var palette = color.Palette{
	color.RGBA{R: 0xff, G: 0x82, B: 0x00, A: 0xff},
	color.RGBA{A: 0xff},
}

type Panel struct {
	// Path of the output file. A %d verb is replaced by the frame number.
	Path  string
	Scale int

	frame int
}

func (p *Panel) Draw(img *mono.Image) error {
	path := p.Path
	if strings.Contains(path, "%d") {
		path = fmt.Sprintf(path, p.frame)
	}
	p.frame++
	buf := new(bytes.Buffer)
	if err := Encode(buf, img, p.Scale); err != nil {
		return fmt.Errorf("pngdump: %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o640)
}

// Encode writes img enlarged by scale as a PNG image.
func Encode(w io.Writer, img *mono.Image, scale int) error {
	return png.Encode(w, img.Paletted(palette, scale))
}
