package canvas

import (
	"fmt"
	"image"

	"github.com/kortschak/qr"
	"monoscreen.org/bresenham"
	"monoscreen.org/image/mono"
)

// Quadrant selects parts of a circle.
type Quadrant uint8

const (
	UpperRight Quadrant = 1 << iota
	UpperLeft
	LowerLeft
	LowerRight

	AllQuadrants = UpperRight | UpperLeft | LowerLeft | LowerRight
)

func (c *Canvas) DrawDot(x, y int) {
	c.SetPixel(c.offset(x, y))
}

func (c *Canvas) DrawVerticalLine(x, y, length int) {
	x, y = c.offset(x, y)
	c.vline(x, y, length)
}

func (c *Canvas) DrawHorizontalLine(x, y, length int) {
	x, y = c.offset(x, y)
	c.hline(x, y, length)
}

func (c *Canvas) vline(x, y, length int) {
	for i := 0; i < length; i++ {
		c.SetPixel(x, y+i)
	}
}

func (c *Canvas) hline(x, y, length int) {
	for i := 0; i < length; i++ {
		c.SetPixel(x+i, y)
	}
}

// DrawLine draws a line between two points, both included.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	x0, y0 = c.offset(x0, y0)
	x1, y1 = c.offset(x1, y1)
	for p := range bresenham.Points(image.Pt(x0, y0), image.Pt(x1, y1)) {
		c.SetPixel(p.X, p.Y)
	}
}

// DrawBox fills a width×height rectangle.
func (c *Canvas) DrawBox(x, y, width, height int) {
	x, y = c.offset(x, y)
	for i := 0; i < height; i++ {
		c.hline(x, y+i, width)
	}
}

// DrawFrame outlines a width×height rectangle.
func (c *Canvas) DrawFrame(x, y, width, height int) {
	x, y = c.offset(x, y)
	c.vline(x, y, height)
	c.vline(x+width-1, y, height)
	c.hline(x, y, width)
	c.hline(x, y+height-1, width)
}

// DrawRoundedFrame outlines a rectangle with corners of the given
// radius.
func (c *Canvas) DrawRoundedFrame(x, y, width, height, radius int) {
	x, y = c.offset(x, y)
	c.hline(x+radius, y, width-2*radius)
	c.hline(x+radius, y+height-1, width-2*radius)
	c.vline(x, y+radius, height-2*radius)
	c.vline(x+width-1, y+radius, height-2*radius)
	c.circle(x+radius+1, y+radius, radius, UpperRight, c.circleSection)
	c.circle(x+width-radius-2, y+radius, radius, UpperLeft, c.circleSection)
	c.circle(x+radius+1, y+height-radius-1, radius, LowerRight, c.circleSection)
	c.circle(x+width-radius-2, y+height-radius-1, radius, LowerLeft, c.circleSection)
}

func (c *Canvas) DrawCircle(x0, y0, radius int) {
	c.DrawCircleQuadrants(x0, y0, radius, AllQuadrants)
}

func (c *Canvas) DrawCircleQuadrants(x0, y0, radius int, q Quadrant) {
	x0, y0 = c.offset(x0, y0)
	c.circle(x0, y0, radius, q, c.circleSection)
}

func (c *Canvas) DrawDisc(x0, y0, radius int) {
	c.DrawDiscQuadrants(x0, y0, radius, AllQuadrants)
}

func (c *Canvas) DrawDiscQuadrants(x0, y0, radius int, q Quadrant) {
	x0, y0 = c.offset(x0, y0)
	c.circle(x0, y0, radius, q, c.discSection)
}

// circle runs the midpoint circle algorithm, calling section for every
// point of the first octant.
func (c *Canvas) circle(x0, y0, radius int, q Quadrant, section func(x, y, x0, y0 int, q Quadrant)) {
	f := 1 - radius
	ddFx := 1
	ddFy := -2 * radius
	x, y := 0, radius
	section(x, y, x0, y0, q)
	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx
		section(x, y, x0, y0, q)
	}
}

func (c *Canvas) circleSection(x, y, x0, y0 int, q Quadrant) {
	if q&UpperRight != 0 {
		c.SetPixel(x0+x, y0-y)
		c.SetPixel(x0+y, y0-x)
	}
	if q&UpperLeft != 0 {
		c.SetPixel(x0-x, y0-y)
		c.SetPixel(x0-y, y0-x)
	}
	if q&LowerRight != 0 {
		c.SetPixel(x0+x, y0+y)
		c.SetPixel(x0+y, y0+x)
	}
	if q&LowerLeft != 0 {
		c.SetPixel(x0-x, y0+y)
		c.SetPixel(x0-y, y0+x)
	}
}

func (c *Canvas) discSection(x, y, x0, y0 int, q Quadrant) {
	if q&UpperRight != 0 {
		c.vline(x0+x, y0-y, y+1)
		c.vline(x0+y, y0-x, x+1)
	}
	if q&UpperLeft != 0 {
		c.vline(x0-x, y0-y, y+1)
		c.vline(x0-y, y0-x, x+1)
	}
	if q&LowerRight != 0 {
		c.vline(x0+x, y0, y+1)
		c.vline(x0+y, y0, x+1)
	}
	if q&LowerLeft != 0 {
		c.vline(x0-x, y0, y+1)
		c.vline(x0-y, y0, x+1)
	}
}

// DrawBitmap draws the dark pixels of img with their bounds' minimum
// point at (x, y).
func (c *Canvas) DrawBitmap(x, y int, img image.Image) {
	x, y = c.offset(x, y)
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			if mono.IsDark(img.At(px, py)) {
				c.SetPixel(x+px-b.Min.X, y+py-b.Min.Y)
			}
		}
	}
}

// quietZone is the minimum margin around a QR code, in modules.
const quietZone = 4

// DrawQR draws content as a QR code with scale×scale pixel modules and
// returns the area it covers, quiet zone included. The quiet zone is
// cleared.
func (c *Canvas) DrawQR(x, y, scale int, content string) (image.Rectangle, error) {
	code, err := qr.Encode(content, qr.M)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("canvas: qr: %w", err)
	}
	x, y = c.offset(x, y)
	n := code.Size + 2*quietZone
	r := image.Rect(x, y, x+n*scale, y+n*scale)
	for my := 0; my < n; my++ {
		for mx := 0; mx < n; mx++ {
			qx, qy := mx-quietZone, my-quietZone
			dark := qx >= 0 && qy >= 0 && qx < code.Size && qy < code.Size && code.Black(qx, qy)
			for py := 0; py < scale; py++ {
				for px := 0; px < scale; px++ {
					if dark {
						c.SetPixel(x+mx*scale+px, y+my*scale+py)
					} else {
						c.ClearPixel(x+mx*scale+px, y+my*scale+py)
					}
				}
			}
		}
	}
	return r, nil
}
