// Package u8g2 decodes and renders fonts in the compact bitmap format of
// the u8g2 graphics library.
//
// A font is a 23 byte header followed by a chain of glyph records. Each
// record starts with its character code and the byte distance to the
// next record; a zero distance ends the chain. The rest of the record is
// a bit packed glyph header and a run-length encoded bitmap.
package u8g2

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const HeaderSize = 23

var (
	// ErrOutOfData is returned when decoding would read past the end of
	// the font data.
	ErrOutOfData = errors.New("u8g2: truncated font data")
	// ErrFieldWidth is returned for bit fields wider than 8 bits.
	ErrFieldWidth = errors.New("u8g2: bit field too wide")
	// ErrGlyphNotFound is returned when a glyph chain ends without a
	// matching record.
	ErrGlyphNotFound = errors.New("u8g2: glyph not found")
)

type Header struct {
	NumGlyphs uint8
	BBoxMode  uint8
	// Bit widths of the background and foreground run lengths.
	ZeroBits, OneBits uint8
	// Bit widths of the glyph header fields.
	WidthBits, HeightBits, XOffsetBits, YOffsetBits, PitchBits uint8

	BBoxWidth, BBoxHeight, BBoxX, BBoxY int8

	AscentA, DescentG         int8
	AscentParen, DescentParen int8

	// Offsets from the start of the font to where the searches for
	// upper case, lower case and extended (>= 0x100) glyphs begin.
	OffsetUpper, OffsetLower, OffsetUnicode int
}

const (
	offUpper   = 17
	offLower   = 19
	offUnicode = 21
)

// ParseHeader decodes the font header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("u8g2: header: %w", ErrOutOfData)
	}
	h := Header{
		NumGlyphs:    data[0],
		BBoxMode:     data[1],
		ZeroBits:     data[2],
		OneBits:      data[3],
		WidthBits:    data[4],
		HeightBits:   data[5],
		XOffsetBits:  data[6],
		YOffsetBits:  data[7],
		PitchBits:    data[8],
		BBoxWidth:    int8(data[9]),
		BBoxHeight:   int8(data[10]),
		BBoxX:        int8(data[11]),
		BBoxY:        int8(data[12]),
		AscentA:      int8(data[13]),
		DescentG:     int8(data[14]),
		AscentParen:  int8(data[15]),
		DescentParen: int8(data[16]),

		OffsetUpper:   HeaderSize + int(binary.BigEndian.Uint16(data[offUpper:])),
		OffsetLower:   HeaderSize + int(binary.BigEndian.Uint16(data[offLower:])),
		OffsetUnicode: HeaderSize + int(binary.BigEndian.Uint16(data[offUnicode:])),
	}
	for _, w := range []uint8{h.ZeroBits, h.OneBits, h.WidthBits, h.HeightBits, h.XOffsetBits, h.YOffsetBits, h.PitchBits} {
		if w > 8 {
			return Header{}, fmt.Errorf("u8g2: header: %w", ErrFieldWidth)
		}
	}
	return h, nil
}

type Font struct {
	Header Header
	data   []byte
}

func Parse(data []byte) (*Font, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return &Font{Header: h, data: data}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(data []byte) *Font {
	f, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return f
}

// Glyph is a decoded glyph record. Its bitmap is decoded on demand.
type Glyph struct {
	Code byte
	// Next is the distance in bytes to the next record in the chain.
	Next byte

	Width, Height    uint8
	XOffset, YOffset int
	// Pitch is the signed horizontal advance.
	Pitch int

	bitmap Cursor
}

// Metrics returns the font metrics sampled from its header.
func (f *Font) Metrics() font.Metrics {
	h := f.Header
	return font.Metrics{
		Height:    fixed.I(int(h.BBoxHeight)),
		Ascent:    fixed.I(int(h.AscentA)),
		Descent:   fixed.I(-int(h.DescentG)),
		CapHeight: fixed.I(int(h.AscentA)),
	}
}

func (f *Font) searchStart(code byte) int {
	switch {
	case 'A' <= code && code <= 'Z':
		return f.Header.OffsetUpper
	case 'a' <= code && code <= 'z':
		return f.Header.OffsetLower
	default:
		return HeaderSize
	}
}

// Locate walks the glyph chain for code and returns the offset of its
// record.
func (f *Font) Locate(code byte) (int, error) {
	pos := f.searchStart(code)
	for {
		if pos < 0 || pos+2 > len(f.data) {
			return 0, fmt.Errorf("u8g2: glyph %#x: %w", code, ErrOutOfData)
		}
		c, next := f.data[pos], f.data[pos+1]
		if c == code {
			return pos, nil
		}
		if next == 0 {
			return 0, ErrGlyphNotFound
		}
		pos += int(next)
	}
}

// GlyphAt decodes the record at offset off.
func (f *Font) GlyphAt(off int) (Glyph, error) {
	if off < 0 || off+2 > len(f.data) {
		return Glyph{}, fmt.Errorf("u8g2: record at %d: %w", off, ErrOutOfData)
	}
	g := Glyph{
		Code:   f.data[off],
		Next:   f.data[off+1],
		bitmap: NewCursor(f.data[off+2:]),
	}
	h := &f.Header
	c := &g.bitmap
	var err error
	read := func(n uint8) uint8 {
		if err != nil {
			return 0
		}
		var v uint8
		v, err = c.ReadUnsigned(int(n))
		return v
	}
	readSigned := func(n uint8) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = c.ReadSigned(int(n))
		return v
	}
	g.Width = read(h.WidthBits)
	g.Height = read(h.HeightBits)
	g.XOffset = readSigned(h.XOffsetBits)
	g.YOffset = readSigned(h.YOffsetBits)
	g.Pitch = readSigned(h.PitchBits)
	if err != nil {
		return Glyph{}, fmt.Errorf("u8g2: glyph %#x header: %w", g.Code, err)
	}
	return g, nil
}

// Glyph locates and decodes the glyph for code.
func (f *Font) Glyph(code byte) (Glyph, error) {
	off, err := f.Locate(code)
	if err != nil {
		return Glyph{}, err
	}
	return f.GlyphAt(off)
}
