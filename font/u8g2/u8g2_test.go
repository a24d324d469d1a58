package u8g2

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fixture is a two glyph font with an 'H' and an 'i', both 7 pixels
// above the baseline.
var fixture = []byte{
	2, 0, 3, 3, 3, 3, 2, 4, 4,
	5, 7, 0, 0xf9,
	0, 0, 0, 0,
	0x00, 0x00, 0x00, 0x09, 0x00, 0x00,
	// 'H': 5x7, x offset 0, y offset -7, pitch 6.
	0x48, 0x09, 0xbd, 0xe1, 0x88, 0xa9, 0xdd, 0xd4, 0x02,
	// 'i': 1x6, x offset 1, y offset -7, pitch 3.
	0x69, 0x00, 0xf1, 0xb1, 0x88, 0x10,
}

// grid is a PixelSink that records pixels into a text grid.
type grid struct {
	w, h  int
	pix   []byte
	fg    int
	bg    int
	clips int
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, pix: bytes.Repeat([]byte{'.'}, w*h)}
}

func (g *grid) plot(x, y int, c byte) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		g.clips++
		return
	}
	g.pix[y*g.w+x] = c
}

func (g *grid) PlotForeground(x, y int) {
	g.fg++
	g.plot(x, y, '#')
}

func (g *grid) PlotBackground(x, y int) {
	g.bg++
	g.plot(x, y, '.')
}

func (g *grid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		b.Write(g.pix[y*g.w : (y+1)*g.w])
		b.WriteByte('\n')
	}
	return b.String()
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(fixture)
	if err != nil {
		t.Fatal(err)
	}
	want := Header{
		NumGlyphs: 2,
		ZeroBits:  3, OneBits: 3,
		WidthBits: 3, HeightBits: 3, XOffsetBits: 2, YOffsetBits: 4, PitchBits: 4,
		BBoxWidth: 5, BBoxHeight: 7, BBoxX: 0, BBoxY: -7,
		OffsetUpper:   23,
		OffsetLower:   32,
		OffsetUnicode: 23,
	}
	if h != want {
		t.Errorf("header\n got %+v\nwant %+v", h, want)
	}
	if _, err := ParseHeader(fixture[:HeaderSize-1]); !errors.Is(err, ErrOutOfData) {
		t.Errorf("short header: got %v, want %v", err, ErrOutOfData)
	}
	wide := bytes.Clone(fixture)
	wide[4] = 9
	if _, err := ParseHeader(wide); !errors.Is(err, ErrFieldWidth) {
		t.Errorf("9 bit width field: got %v, want %v", err, ErrFieldWidth)
	}
}

func TestLocate(t *testing.T) {
	f := MustParse(fixture)
	tests := []struct {
		code byte
		off  int
		err  error
	}{
		{'H', 23, nil},
		{'i', 32, nil},
		{'x', 0, ErrGlyphNotFound},
		{'!', 0, ErrGlyphNotFound},
		// Above 0x7f the search starts at the first record, and the code
		// must not be confused with a negative value.
		{0xc8, 0, ErrGlyphNotFound},
	}
	for _, test := range tests {
		off, err := f.Locate(test.code)
		if !errors.Is(err, test.err) {
			t.Errorf("Locate(%q): got error %v, want %v", test.code, err, test.err)
			continue
		}
		if off != test.off {
			t.Errorf("Locate(%q) = %d, want %d", test.code, off, test.off)
		}
	}
}

func TestGlyph(t *testing.T) {
	f := MustParse(fixture)
	tests := []struct {
		code                    byte
		w, h                    uint8
		xoff, yoff, pitch, next int
	}{
		{'H', 5, 7, 0, -7, 6, 9},
		{'i', 1, 6, 1, -7, 3, 0},
	}
	for _, test := range tests {
		g, err := f.Glyph(test.code)
		if err != nil {
			t.Fatalf("Glyph(%q): %v", test.code, err)
		}
		if g.Code != test.code || g.Width != test.w || g.Height != test.h ||
			g.XOffset != test.xoff || g.YOffset != test.yoff || g.Pitch != test.pitch ||
			int(g.Next) != test.next {
			t.Errorf("Glyph(%q) = %+v", test.code, g)
		}
	}
}

func TestDrawString(t *testing.T) {
	f := MustParse(fixture)
	g := newGrid(16, 8)
	x, err := f.DrawString(0, 0, []byte("Hi"), g)
	if err != nil {
		t.Fatal(err)
	}
	if x != 9 {
		t.Errorf("pen at %d after \"Hi\", want 9", x)
	}
	want := `#...#...........
#...#..#........
#...#...........
#####..#........
#...#..#........
#...#..#........
#...#..#........
................
`
	if got := g.String(); got != want {
		t.Errorf("rendered\n%s\nwant\n%s", got, want)
	}
	if g.fg != 22 || g.bg != 19 {
		t.Errorf("got %d foreground and %d background pixels, want 22 and 19", g.fg, g.bg)
	}
}

func TestDrawStringSkipsMissing(t *testing.T) {
	f := MustParse(fixture)
	g := newGrid(16, 8)
	x, err := f.DrawString(0, 0, []byte("x!i"), g)
	if err != nil {
		t.Fatal(err)
	}
	if x != 3 {
		t.Errorf("pen at %d, want 3", x)
	}
	adv, err := f.Advance([]byte("Hxi"))
	if err != nil {
		t.Fatal(err)
	}
	if adv != 9 {
		t.Errorf("advance %d, want 9", adv)
	}
}

func TestDrawGlyphReuse(t *testing.T) {
	f := MustParse(fixture)
	glyph, err := f.Glyph('i')
	if err != nil {
		t.Fatal(err)
	}
	g1, g2 := newGrid(4, 8), newGrid(4, 8)
	if err := f.DrawGlyph(&glyph, 0, 0, g1); err != nil {
		t.Fatal(err)
	}
	if err := f.DrawGlyph(&glyph, 0, 0, g2); err != nil {
		t.Fatal(err)
	}
	if g1.String() != g2.String() {
		t.Errorf("second draw differs:\n%s\n%s", g1, g2)
	}
}

func TestDrawGlyphClipping(t *testing.T) {
	f := MustParse(fixture)
	g := newGrid(4, 4)
	if _, err := f.DrawString(-2, 2, []byte("H"), g); err != nil {
		t.Fatal(err)
	}
	if g.clips == 0 {
		t.Error("no pixels fell outside the grid")
	}
}

func TestTruncated(t *testing.T) {
	for n := HeaderSize; n < len(fixture); n++ {
		f := MustParse(fixture[:n])
		// Even with 'H' complete, the lower case search starts past the
		// end of the data.
		_, err := f.DrawString(0, 0, []byte("Hi"), newGrid(16, 8))
		if !errors.Is(err, ErrOutOfData) {
			t.Errorf("%d bytes: got %v, want %v", n, err, ErrOutOfData)
		}
	}
}

func TestOverlongBitmap(t *testing.T) {
	// A single 1x1 glyph whose stream holds a (0, 3) pair: only the first
	// pixel is drawn.
	w := &bitWriter{buf: []byte{'.', 0}}
	w.writeUnsigned(3, 1)
	w.writeUnsigned(3, 1)
	w.writeSigned(2, 0)
	w.writeSigned(4, -1)
	w.writeSigned(4, 2)
	w.writeUnsigned(3, 0)
	w.writeUnsigned(3, 3)
	w.writeUnsigned(1, 0)
	data := append([]byte{
		1, 0, 3, 3, 3, 3, 2, 4, 4,
		1, 1, 0, 0xff,
		0, 0, 0, 0,
		0, 0, 0, 0, 0, 0,
	}, w.buf...)
	f := MustParse(data)
	g := newGrid(2, 2)
	if _, err := f.DrawString(0, 0, []byte("."), g); err != nil {
		t.Fatal(err)
	}
	if g.fg != 1 || g.bg != 0 {
		t.Errorf("got %d foreground and %d background pixels, want 1 and 0", g.fg, g.bg)
	}
	if got, want := g.String(), "#.\n..\n"; got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

func TestFixtureEncoding(t *testing.T) {
	h, err := ParseHeader(fixture)
	if err != nil {
		t.Fatal(err)
	}
	glyphs := []srcGlyph{
		{code: 'H', width: 5, height: 7, xoffset: 0, yoffset: -7, pitch: 6, pix: parseBits(`
			#...#
			#...#
			#...#
			#####
			#...#
			#...#
			#...#`)},
		{code: 'i', width: 1, height: 6, xoffset: 1, yoffset: -7, pitch: 3, pix: parseBits(`
			#
			.
			#
			#
			#
			#`)},
	}
	var got []byte
	for i := range glyphs {
		got = append(got, encodeGlyph(&h, &glyphs[i])...)
	}
	got[1] = 9
	if want := fixture[HeaderSize:]; !bytes.Equal(got, want) {
		t.Errorf("encoded records\n got % x\nwant % x", got, want)
	}
}

func parseBits(s string) []bool {
	var pix []bool
	for _, c := range s {
		switch c {
		case '#':
			pix = append(pix, true)
		case '.':
			pix = append(pix, false)
		}
	}
	return pix
}

func ExampleFont_DrawString() {
	f := MustParse(fixture)
	g := newGrid(10, 7)
	f.DrawString(0, 0, []byte("Hi"), g)
	fmt.Print(g)
	// Output:
	// #...#.....
	// #...#..#..
	// #...#.....
	// #####..#..
	// #...#..#..
	// #...#..#..
	// #...#..#..
}

func TestAllocs(t *testing.T) {
	f := MustParse(fixture)
	text := []byte("Hi?H")
	g := newGrid(20, 10)
	res := testing.Benchmark(func(b *testing.B) {
		for range b.N {
			if _, err := f.DrawString(1, 8, text, g); err != nil {
				b.Fatal(err)
			}
		}
	})
	if a := res.AllocsPerOp(); a > 0 {
		t.Errorf("DrawString allocated %d, expected zero", a)
	}
}
