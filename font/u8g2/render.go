package u8g2

import (
	"errors"
	"fmt"
)

// PixelSink receives the pixels of rendered glyphs.
type PixelSink interface {
	PlotForeground(x, y int)
	PlotBackground(x, y int)
}

// DrawGlyph renders the bitmap of g with its pen position at (x, y).
// Every one of the Width×Height pixels is sent to sink, row by row.
//
// The bitmap is a sequence of (background run, foreground run) pairs,
// each followed by a unary repeat count: a repeat count of n emits the
// pair n+1 times.
func (f *Font) DrawGlyph(g *Glyph, x, y int, sink PixelSink) error {
	w := int(g.Width)
	total := w * int(g.Height)
	if total == 0 {
		return nil
	}
	x0 := x + g.XOffset
	px, py := x0, y-int(g.Height)-g.YOffset
	bits := g.bitmap
	n := 0
	for n < total {
		zeros, err := bits.ReadUnsigned(int(f.Header.ZeroBits))
		if err != nil {
			return fmt.Errorf("u8g2: glyph %#x bitmap: %w", g.Code, err)
		}
		ones, err := bits.ReadUnsigned(int(f.Header.OneBits))
		if err != nil {
			return fmt.Errorf("u8g2: glyph %#x bitmap: %w", g.Code, err)
		}
		repeat := 0
		for {
			b, err := bits.ReadUnsigned(1)
			if err != nil {
				return fmt.Errorf("u8g2: glyph %#x bitmap: %w", g.Code, err)
			}
			if b == 0 {
				break
			}
			repeat++
		}
		run := int(zeros) + int(ones)
		for ; repeat >= 0; repeat-- {
			for i := 0; i < run; i++ {
				if n == total {
					// Overlong stream; drop the excess.
					return nil
				}
				if i < int(zeros) {
					sink.PlotBackground(px, py)
				} else {
					sink.PlotForeground(px, py)
				}
				px++
				n++
				if n%w == 0 {
					px = x0
					py++
				}
			}
		}
	}
	return nil
}

// DrawString renders text left to right starting with the pen at (x, y)
// and returns the final pen position. Characters without a glyph are
// skipped and do not move the pen.
func (f *Font) DrawString(x, y int, text []byte, sink PixelSink) (int, error) {
	for _, c := range text {
		g, err := f.Glyph(c)
		if err != nil {
			if errors.Is(err, ErrGlyphNotFound) {
				continue
			}
			return x, err
		}
		if err := f.DrawGlyph(&g, x, y, sink); err != nil {
			return x, err
		}
		x += g.Pitch
	}
	return x, nil
}

// Advance returns the distance the pen moves when text is drawn.
func (f *Font) Advance(text []byte) (int, error) {
	adv := 0
	for _, c := range text {
		g, err := f.Glyph(c)
		if err != nil {
			if errors.Is(err, ErrGlyphNotFound) {
				continue
			}
			return adv, err
		}
		adv += g.Pitch
	}
	return adv, nil
}
