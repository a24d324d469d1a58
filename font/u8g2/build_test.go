package u8g2

import (
	"image"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type pointSet map[image.Point]bool

func (s pointSet) PlotForeground(x, y int) { s[image.Pt(x, y)] = true }
func (s pointSet) PlotBackground(x, y int) { delete(s, image.Pt(x, y)) }

func asciiRunes() []rune {
	var runes []rune
	for r := rune(0x20); r < 0x7f; r++ {
		runes = append(runes, r)
	}
	return runes
}

func TestBuildRoundTrip(t *testing.T) {
	face := basicfont.Face7x13
	data, err := Build(face, asciiRunes())
	if err != nil {
		t.Fatal(err)
	}
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := int(f.Header.NumGlyphs), 0x7f-0x20; got != want {
		t.Errorf("%d glyphs, want %d", got, want)
	}
	for _, r := range asciiRunes() {
		g, err := f.Glyph(byte(r))
		if err != nil {
			t.Fatalf("glyph %q: %v", r, err)
		}
		if g.Pitch != face.Advance {
			t.Errorf("glyph %q: pitch %d, want %d", r, g.Pitch, face.Advance)
		}
		got := make(pointSet)
		if err := f.DrawGlyph(&g, 0, 0, got); err != nil {
			t.Fatalf("glyph %q: %v", r, err)
		}
		want := make(pointSet)
		dr, mask, maskp, _, _ := face.Glyph(fixed.Point26_6{}, r)
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			for x := dr.Min.X; x < dr.Max.X; x++ {
				_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					want[image.Pt(x, y)] = true
				}
			}
		}
		if len(got) != len(want) {
			t.Errorf("glyph %q: %d pixels set, want %d", r, len(got), len(want))
			continue
		}
		for p := range want {
			if !got[p] {
				t.Errorf("glyph %q: pixel %v not set", r, p)
			}
		}
	}
	adv, err := f.Advance([]byte("Hello"))
	if err != nil {
		t.Fatal(err)
	}
	if adv != 5*face.Advance {
		t.Errorf("advance %d, want %d", adv, 5*face.Advance)
	}
	if f.Header.AscentA <= 0 || f.Header.DescentG >= 0 {
		t.Errorf("ascent %d, descent %d", f.Header.AscentA, f.Header.DescentG)
	}
}

func TestBuildChainStarts(t *testing.T) {
	data, err := Build(basicfont.Face7x13, []rune("zaZA0A!"))
	if err != nil {
		t.Fatal(err)
	}
	f := MustParse(data)
	if f.Header.NumGlyphs != 6 {
		t.Errorf("%d glyphs, want 6", f.Header.NumGlyphs)
	}
	if off, _ := f.Locate('A'); off != f.Header.OffsetUpper {
		t.Errorf("'A' at %d, upper case search starts at %d", off, f.Header.OffsetUpper)
	}
	if off, _ := f.Locate('a'); off != f.Header.OffsetLower {
		t.Errorf("'a' at %d, lower case search starts at %d", off, f.Header.OffsetLower)
	}
	for _, c := range []byte("!0AZaz") {
		if _, err := f.Glyph(c); err != nil {
			t.Errorf("glyph %q: %v", c, err)
		}
	}
	if _, err := f.Glyph('b'); err != ErrGlyphNotFound {
		t.Errorf("glyph 'b': got %v, want %v", err, ErrGlyphNotFound)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(basicfont.Face7x13, []rune{'a', 0x100}); err == nil {
		t.Error("rune 0x100 accepted")
	}
	if _, err := Build(basicfont.Face7x13, nil); err == nil {
		t.Error("empty font accepted")
	}
}

func TestRuns(t *testing.T) {
	tests := []struct {
		pix  string
		want [][2]int
	}{
		{"", nil},
		{"#", [][2]int{{0, 1}}},
		{"...", [][2]int{{3, 0}}},
		{"..##.", [][2]int{{2, 2}, {1, 0}}},
		{".....#", [][2]int{{3, 0}, {2, 1}}},
		{"#####", [][2]int{{0, 3}, {0, 2}}},
	}
	for _, test := range tests {
		got := runs(parseBits(test.pix), 3, 3)
		if len(got) != len(test.want) {
			t.Errorf("runs(%q) = %v, want %v", test.pix, got, test.want)
			continue
		}
		for i := range got {
			if got[i] != test.want[i] {
				t.Errorf("runs(%q) = %v, want %v", test.pix, got, test.want)
				break
			}
		}
	}
}
