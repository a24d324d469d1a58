package u8g2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"monoscreen.org/image/mono"
)

// srcGlyph is a glyph bitmap before encoding. Offsets follow the font
// format: y offset is the height of the glyph bottom above the baseline.
type srcGlyph struct {
	code             byte
	width, height    int
	xoffset, yoffset int
	pitch            int
	pix              []bool
}

// Build encodes the glyphs face has for runes into font data. Runes must
// be single byte codes; runes missing from face are left out. Glyph
// coverage is thresholded at 50%.
func Build(face font.Face, runes []rune) ([]byte, error) {
	codes := slices.Clone(runes)
	slices.Sort(codes)
	codes = slices.Compact(codes)
	var glyphs []srcGlyph
	for _, r := range codes {
		if r < 0 || r > math.MaxUint8 {
			return nil, fmt.Errorf("u8g2: build: rune %U is not a single byte code", r)
		}
		if g, ok := rasterize(face, r); ok {
			glyphs = append(glyphs, g)
		}
	}
	if len(glyphs) == 0 {
		return nil, errors.New("u8g2: build: no glyphs")
	}
	if len(glyphs) > math.MaxUint8 {
		return nil, fmt.Errorf("u8g2: build: %d glyphs", len(glyphs))
	}
	h := Header{NumGlyphs: uint8(len(glyphs))}
	if err := h.fitMetrics(glyphs); err != nil {
		return nil, err
	}
	// Pick the run length widths that give the smallest font.
	var best [][]byte
	var bestZero, bestOne uint8
	bestSize := math.MaxInt
	for z := uint8(2); z <= 7; z++ {
		for o := uint8(2); o <= 7; o++ {
			h.ZeroBits, h.OneBits = z, o
			recs, size, ok := encodeRecords(&h, glyphs)
			if ok && size < bestSize {
				best, bestSize = recs, size
				bestZero, bestOne = z, o
			}
		}
	}
	if best == nil {
		return nil, errors.New("u8g2: build: glyph record exceeds 255 bytes")
	}
	h.ZeroBits, h.OneBits = bestZero, bestOne

	data := make([]byte, HeaderSize, HeaderSize+bestSize)
	h.OffsetUpper, h.OffsetLower = HeaderSize, HeaderSize
	upper, lower := false, false
	for i, rec := range best {
		code := glyphs[i].code
		if !upper && code >= 'A' {
			h.OffsetUpper, upper = len(data), true
		}
		if !lower && code >= 'a' {
			h.OffsetLower, lower = len(data), true
		}
		if i < len(best)-1 {
			rec[1] = byte(len(rec))
		}
		data = append(data, rec...)
	}
	if len(data)-HeaderSize > math.MaxUint16 {
		return nil, errors.New("u8g2: build: font too large")
	}
	h.OffsetUnicode = HeaderSize
	h.put(data)
	return data, nil
}

func rasterize(face font.Face, r rune) (srcGlyph, bool) {
	dr, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return srcGlyph{}, false
	}
	m := mono.New(dr)
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
			m.SetBit(x, y, a >= 0x8000)
		}
	}
	g := srcGlyph{
		code:  byte(r),
		pitch: adv.Round(),
	}
	b := m.Crop()
	if b.Empty() {
		return g, true
	}
	g.width, g.height = b.Dx(), b.Dy()
	g.xoffset, g.yoffset = b.Min.X, -b.Max.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.pix = append(g.pix, m.BitAt(x, y))
		}
	}
	return g, true
}

func (h *Header) fitMetrics(glyphs []srcGlyph) error {
	var maxw, maxh int
	minx, maxx := math.MaxInt, math.MinInt
	miny, maxy := math.MaxInt, math.MinInt
	minp, maxp := math.MaxInt, math.MinInt
	for _, g := range glyphs {
		maxw, maxh = max(maxw, g.width), max(maxh, g.height)
		minx, maxx = min(minx, g.xoffset), max(maxx, g.xoffset)
		miny, maxy = min(miny, g.yoffset), max(maxy, g.yoffset)
		minp, maxp = min(minp, g.pitch), max(maxp, g.pitch)
		switch g.code {
		case 'A':
			h.AscentA = clamp8(g.height + g.yoffset)
		case 'g':
			h.DescentG = clamp8(g.yoffset)
		case '(':
			h.AscentParen = clamp8(g.height + g.yoffset)
			h.DescentParen = clamp8(g.yoffset)
		}
	}
	h.BBoxWidth, h.BBoxHeight = clamp8(maxw), clamp8(maxh)
	h.BBoxX, h.BBoxY = clamp8(minx), clamp8(miny)
	widths := []struct {
		dst  *uint8
		bits int
	}{
		{&h.WidthBits, unsignedBits(maxw)},
		{&h.HeightBits, unsignedBits(maxh)},
		{&h.XOffsetBits, signedBits(minx, maxx)},
		{&h.YOffsetBits, signedBits(miny, maxy)},
		{&h.PitchBits, signedBits(minp, maxp)},
	}
	for _, w := range widths {
		if w.bits > 8 {
			return fmt.Errorf("u8g2: build: %w", ErrFieldWidth)
		}
		*w.dst = uint8(w.bits)
	}
	return nil
}

// encodeRecords encodes every glyph into a record with a zero chain
// distance.
func encodeRecords(h *Header, glyphs []srcGlyph) ([][]byte, int, bool) {
	var recs [][]byte
	size := 0
	for i := range glyphs {
		rec := encodeGlyph(h, &glyphs[i])
		if len(rec) > math.MaxUint8 {
			return nil, 0, false
		}
		recs = append(recs, rec)
		size += len(rec)
	}
	return recs, size, true
}

func encodeGlyph(h *Header, g *srcGlyph) []byte {
	w := &bitWriter{buf: []byte{g.code, 0}}
	w.writeUnsigned(int(h.WidthBits), uint(g.width))
	w.writeUnsigned(int(h.HeightBits), uint(g.height))
	w.writeSigned(int(h.XOffsetBits), g.xoffset)
	w.writeSigned(int(h.YOffsetBits), g.yoffset)
	w.writeSigned(int(h.PitchBits), g.pitch)
	pairs := runs(g.pix, 1<<h.ZeroBits-1, 1<<h.OneBits-1)
	for i := 0; i < len(pairs); {
		j := i + 1
		for j < len(pairs) && pairs[j] == pairs[i] {
			j++
		}
		w.writeUnsigned(int(h.ZeroBits), uint(pairs[i][0]))
		w.writeUnsigned(int(h.OneBits), uint(pairs[i][1]))
		for k := i + 1; k < j; k++ {
			w.writeUnsigned(1, 1)
		}
		w.writeUnsigned(1, 0)
		i = j
	}
	return w.buf
}

// runs splits a bitmap into (background, foreground) run pairs with runs
// no longer than maxZero and maxOne.
func runs(pix []bool, maxZero, maxOne int) [][2]int {
	var pairs [][2]int
	for pos := 0; pos < len(pix); {
		z := 0
		for pos+z < len(pix) && !pix[pos+z] && z < maxZero {
			z++
		}
		o := 0
		for pos+z+o < len(pix) && pix[pos+z+o] && o < maxOne {
			o++
		}
		pairs = append(pairs, [2]int{z, o})
		pos += z + o
	}
	return pairs
}

func (h *Header) put(data []byte) {
	data[0] = h.NumGlyphs
	data[1] = h.BBoxMode
	data[2] = h.ZeroBits
	data[3] = h.OneBits
	data[4] = h.WidthBits
	data[5] = h.HeightBits
	data[6] = h.XOffsetBits
	data[7] = h.YOffsetBits
	data[8] = h.PitchBits
	data[9] = byte(h.BBoxWidth)
	data[10] = byte(h.BBoxHeight)
	data[11] = byte(h.BBoxX)
	data[12] = byte(h.BBoxY)
	data[13] = byte(h.AscentA)
	data[14] = byte(h.DescentG)
	data[15] = byte(h.AscentParen)
	data[16] = byte(h.DescentParen)
	binary.BigEndian.PutUint16(data[offUpper:], uint16(h.OffsetUpper-HeaderSize))
	binary.BigEndian.PutUint16(data[offLower:], uint16(h.OffsetLower-HeaderSize))
	binary.BigEndian.PutUint16(data[offUnicode:], uint16(h.OffsetUnicode-HeaderSize))
}

func unsignedBits(v int) int {
	n := 1
	for v >= 1<<n {
		n++
	}
	return n
}

func signedBits(lo, hi int) int {
	n := 1
	for lo < -(1<<(n-1)) || hi >= 1<<(n-1) {
		n++
	}
	return n
}

func clamp8(v int) int8 {
	return int8(max(math.MinInt8, min(math.MaxInt8, v)))
}
