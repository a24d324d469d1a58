// Package mono implements an [image.Image] with 1-bit pixels, the
// native format of monochrome display panels.
package mono

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Image is a bitmap where a set bit is a dark (black) pixel. Rows are
// padded to whole bytes and bits are stored least significant first.
type Image struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

var (
	Black = color.Gray{Y: 0x00}
	White = color.Gray{Y: 0xff}
)

// Model converts colors to [Black] or [White] by thresholding their
// luminance.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if IsDark(c) {
		return Black
	}
	return White
})

// IsDark reports whether c maps to a set pixel.
func IsDark(c color.Color) bool {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	// Rec. 601 luma, as in color.GrayModel.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	return y < 0x8000
}

func New(r image.Rectangle) *Image {
	stride := (r.Dx() + 7) / 8
	return &Image{
		Pix:    make([]byte, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
	}
}

func (p *Image) Bounds() image.Rectangle { return p.Rect }

func (p *Image) ColorModel() color.Model { return Model }

func (p *Image) At(x, y int) color.Color {
	if p.BitAt(x, y) {
		return Black
	}
	return White
}

func (p *Image) Set(x, y int, c color.Color) {
	p.SetBit(x, y, IsDark(c))
}

// PixOffset returns the index of the byte holding the pixel at (x, y)
// and the mask selecting its bit.
func (p *Image) PixOffset(x, y int) (int, byte) {
	dx, dy := x-p.Rect.Min.X, y-p.Rect.Min.Y
	return dy*p.Stride + dx/8, 1 << (dx % 8)
}

// BitAt reports whether the pixel at (x, y) is set. Pixels outside the
// image are never set.
func (p *Image) BitAt(x, y int) bool {
	if !(image.Point{x, y}).In(p.Rect) {
		return false
	}
	i, mask := p.PixOffset(x, y)
	return p.Pix[i]&mask != 0
}

// SetBit writes the pixel at (x, y). Writes outside the image are
// ignored.
func (p *Image) SetBit(x, y int, v bool) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}
	i, mask := p.PixOffset(x, y)
	if v {
		p.Pix[i] |= mask
	} else {
		p.Pix[i] &^= mask
	}
}

// Fill sets or clears every pixel.
func (p *Image) Fill(v bool) {
	b := byte(0)
	if v {
		b = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = b
	}
}

// CopyFrom replaces the pixels of p that overlap src with those of src.
func (p *Image) CopyFrom(src *Image) {
	if src.Rect == p.Rect && src.Stride == p.Stride {
		copy(p.Pix, src.Pix)
		return
	}
	r := p.Rect.Intersect(src.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.SetBit(x, y, src.BitAt(x, y))
		}
	}
}

// Crop returns the bounds of the smallest rectangle containing every set
// pixel, or the empty rectangle if no pixel is set.
func (p *Image) Crop() image.Rectangle {
	r := p.Rect
	emptyCol := func(x int) bool {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if p.BitAt(x, y) {
				return false
			}
		}
		return true
	}
	emptyRow := func(y int) bool {
		for x := r.Min.X; x < r.Max.X; x++ {
			if p.BitAt(x, y) {
				return false
			}
		}
		return true
	}
	for r.Min.X < r.Max.X && emptyCol(r.Min.X) {
		r.Min.X++
	}
	for r.Max.X > r.Min.X && emptyCol(r.Max.X-1) {
		r.Max.X--
	}
	for r.Min.Y < r.Max.Y && emptyRow(r.Min.Y) {
		r.Min.Y++
	}
	for r.Max.Y > r.Min.Y && emptyRow(r.Max.Y-1) {
		r.Max.Y--
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}

// Paletted returns p enlarged by scale as a two color image. Clear
// pixels are color index 0 of pal and set pixels index 1.
func (p *Image) Paletted(pal color.Palette, scale int) *image.Paletted {
	scale = max(scale, 1)
	b := p.Rect
	src := image.NewPaletted(b, pal)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if p.BitAt(x, y) {
				src.SetColorIndex(x, y, 1)
			}
		}
	}
	if scale == 1 {
		return src
	}
	dst := image.NewPaletted(image.Rectangle{Max: b.Size().Mul(scale)}, pal)
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
