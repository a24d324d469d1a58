// Package canvas draws text and shapes into a monochrome bitmap and
// commits finished frames to a display.
package canvas

import (
	"image"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"monoscreen.org/font/fonts"
	"monoscreen.org/font/u8g2"
	"monoscreen.org/image/mono"
)

// Color selects the polarity of drawing. Black sets pixels and White
// clears them.
type Color uint8

const (
	ColorWhite Color = iota
	ColorBlack
)

// Direction is the text direction. It is recorded but text is always
// drawn left to right.
type Direction uint8

const (
	LeftToRight Direction = iota
	TopToBottom
	RightToLeft
	BottomToTop
)

// Orientation of the display. Only recorded.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Sink receives committed frames.
type Sink interface {
	Commit(img *mono.Image)
}

type Canvas struct {
	img  *mono.Image
	sink Sink

	color       Color
	font        fonts.Font
	table       *u8g2.Font
	dir         Direction
	orientation Orientation

	// frame is the logical drawing area. Its origin offsets every
	// drawing operation.
	frame image.Rectangle
}

// New creates a width×height canvas, clears it and commits the blank
// frame to sink. A nil sink discards commits.
func New(width, height int, sink Sink) *Canvas {
	c := &Canvas{
		img:   mono.New(image.Rect(0, 0, width, height)),
		sink:  sink,
		color: ColorBlack,
		frame: image.Rect(0, 0, width, height),
	}
	c.SetFont(fonts.Secondary)
	c.Clear()
	c.Commit()
	return c
}

// Reset clears the canvas and restores the default color, font and text
// direction. The frame is kept.
func (c *Canvas) Reset() {
	c.Clear()
	c.SetColor(ColorBlack)
	c.SetFont(fonts.Secondary)
	c.SetFontDirection(LeftToRight)
}

// Commit copies the canvas to its sink.
func (c *Canvas) Commit() {
	if c.sink != nil {
		c.sink.Commit(c.img)
	}
}

// Image returns the backing bitmap.
func (c *Canvas) Image() *mono.Image {
	return c.img
}

func (c *Canvas) Fill(v bool) {
	c.img.Fill(v)
}

func (c *Canvas) Clear() {
	c.img.Fill(false)
}

// SetPixel writes the current color at (x, y). Unlike the drawing
// operations, it is not offset by the frame. Coordinates outside the
// canvas are ignored.
func (c *Canvas) SetPixel(x, y int) {
	c.img.SetBit(x, y, c.color == ColorBlack)
}

// ClearPixel writes the inverse of the current color at (x, y).
func (c *Canvas) ClearPixel(x, y int) {
	c.img.SetBit(x, y, c.color != ColorBlack)
}

// Pixel reports whether the pixel at (x, y) is set. It is false outside
// the canvas.
func (c *Canvas) Pixel(x, y int) bool {
	return c.img.BitAt(x, y)
}

func (c *Canvas) SetColor(col Color) {
	c.color = col
}

func (c *Canvas) Color() Color {
	return c.color
}

// SetFont selects the font for text. It panics if f is not a known font.
func (c *Canvas) SetFont(f fonts.Font) {
	c.table = fonts.Table(f)
	c.font = f
}

func (c *Canvas) Font() fonts.Font {
	return c.font
}

// SetFontTable draws text with an arbitrary font table until the next
// SetFont or Reset.
func (c *Canvas) SetFontTable(f *u8g2.Font) {
	c.table = f
}

func (c *Canvas) SetFontDirection(d Direction) {
	c.dir = d
}

func (c *Canvas) FontDirection() Direction {
	return c.dir
}

func (c *Canvas) SetOrientation(o Orientation) {
	c.orientation = o
}

func (c *Canvas) Orientation() Orientation {
	return c.orientation
}

// SetFrame moves the origin of drawing operations to (x, y) and sets the
// logical size to width×height. The frame does not clip.
func (c *Canvas) SetFrame(x, y, width, height int) {
	c.frame = image.Rect(x, y, x+width, y+height)
}

func (c *Canvas) Frame() image.Rectangle {
	return c.frame
}

func (c *Canvas) Width() int {
	return c.frame.Dx()
}

func (c *Canvas) Height() int {
	return c.frame.Dy()
}

func (c *Canvas) offset(x, y int) (int, int) {
	return x + c.frame.Min.X, y + c.frame.Min.Y
}

// glyphSink renders glyph pixels with the canvas color.
type glyphSink Canvas

func (s *glyphSink) PlotForeground(x, y int) {
	(*Canvas)(s).SetPixel(x, y)
}

func (s *glyphSink) PlotBackground(x, y int) {
	(*Canvas)(s).ClearPixel(x, y)
}

// encode converts text to ISO 8859-1 glyph codes. Runes outside the
// character set become '?'.
func encode(s string) []byte {
	codes := make([]byte, 0, len(s))
	for len(s) > 0 {
		r, n := utf8.DecodeRuneInString(s)
		s = s[n:]
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok || r == utf8.RuneError {
			b = '?'
		}
		codes = append(codes, b)
	}
	return codes
}

// DrawString draws s with the baseline of its first glyph at (x, y).
// Characters missing from the font are skipped.
func (c *Canvas) DrawString(x, y int, s string) error {
	x, y = c.offset(x, y)
	_, err := c.table.DrawString(x, y, encode(s), (*glyphSink)(c))
	return err
}

// StringWidth returns the advance of s in the current font.
func (c *Canvas) StringWidth(s string) (int, error) {
	return c.table.Advance(encode(s))
}

// DrawGlyph draws the glyph for an ISO 8859-1 code.
func (c *Canvas) DrawGlyph(x, y int, code byte) error {
	g, err := c.table.Glyph(code)
	if err != nil {
		return err
	}
	x, y = c.offset(x, y)
	return c.table.DrawGlyph(&g, x, y, (*glyphSink)(c))
}
