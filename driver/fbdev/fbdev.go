// Package fbdev is a display panel backed by a Linux framebuffer device
// such as /dev/fb0.
package fbdev

import (
	"encoding/binary"
	"fmt"

	"monoscreen.org/image/mono"
)

// Layout describes the memory layout of a framebuffer.
type Layout struct {
	Width, Height int
	// Stride is the length of a row in bytes.
	Stride       int
	BitsPerPixel int
}

// Colors of set and clear pixels.
var (
	Foreground = [3]uint8{0x00, 0x00, 0x00}
	Background = [3]uint8{0xff, 0x82, 0x00}
)

func (l Layout) check() error {
	switch l.BitsPerPixel {
	case 16, 32:
	default:
		return fmt.Errorf("fbdev: unsupported depth %d", l.BitsPerPixel)
	}
	if l.Stride < l.Width*l.BitsPerPixel/8 {
		return fmt.Errorf("fbdev: stride %d too short for width %d", l.Stride, l.Width)
	}
	return nil
}

func encodePixel(c [3]uint8, bpp int) uint32 {
	if bpp == 16 {
		return uint32(c[0]>>3)<<11 | uint32(c[1]>>2)<<5 | uint32(c[2]>>3)
	}
	return 0xff<<24 | uint32(c[0])<<16 | uint32(c[1])<<8 | uint32(c[2])
}

// blit draws img into fb enlarged by scale, clipped to the framebuffer.
func blit(fb []byte, l Layout, img *mono.Image, scale int) {
	scale = max(scale, 1)
	fg, bg := encodePixel(Foreground, l.BitsPerPixel), encodePixel(Background, l.BitsPerPixel)
	bpp := l.BitsPerPixel / 8
	b := img.Bounds()
	w, h := min(b.Dx()*scale, l.Width), min(b.Dy()*scale, l.Height)
	for y := 0; y < h; y++ {
		row := fb[y*l.Stride:]
		for x := 0; x < w; x++ {
			v := bg
			if img.BitAt(b.Min.X+x/scale, b.Min.Y+y/scale) {
				v = fg
			}
			px := row[x*bpp:]
			if bpp == 2 {
				binary.LittleEndian.PutUint16(px, uint16(v))
			} else {
				binary.LittleEndian.PutUint32(px, v)
			}
		}
	}
}
