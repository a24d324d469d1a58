// Package golden compares bitmaps against ASCII art for tests. Set pixels
// are drawn as '#' and clear pixels as '.'.
package golden

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"monoscreen.org/image/mono"
)

// Format renders img as ASCII art, one line per row.
func Format(img *mono.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	sb.Grow((b.Dx() + 1) * b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.BitAt(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse converts ASCII art to a bitmap with its top left corner at the
// origin. Leading and trailing blank lines and per line indentation are
// ignored.
func Parse(art string) (*mono.Image, error) {
	var rows []string
	for _, l := range strings.Split(strings.TrimSpace(art), "\n") {
		rows = append(rows, strings.TrimSpace(l))
	}
	if len(rows) == 0 || rows[0] == "" {
		return nil, errors.New("golden: empty art")
	}
	w := len(rows[0])
	img := mono.New(image.Rect(0, 0, w, len(rows)))
	for y, r := range rows {
		if len(r) != w {
			return nil, fmt.Errorf("golden: row %d has width %d, want %d", y, len(r), w)
		}
		for x, c := range []byte(r) {
			switch c {
			case '#':
				img.SetBit(x, y, true)
			case '.':
			default:
				return nil, fmt.Errorf("golden: row %d: invalid pixel %q", y, c)
			}
		}
	}
	return img, nil
}

// Compare the region of img covered by art, placed at off. If the pixels
// differ and dumpDir is not empty, both images are written there as PNG
// files named after name.
func Compare(name, dumpDir string, img *mono.Image, off image.Point, art string) error {
	want, err := Parse(art)
	if err != nil {
		return err
	}
	r := want.Bounds().Add(off)
	got := mono.New(want.Bounds())
	mismatches := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := img.BitAt(x, y)
			got.SetBit(x-off.X, y-off.Y, v)
			if v != want.BitAt(x-off.X, y-off.Y) {
				mismatches++
			}
		}
	}
	if mismatches == 0 {
		return nil
	}
	if dumpDir != "" {
		if err := dump(filepath.Join(dumpDir, name+".png"), got); err != nil {
			return err
		}
		if err := dump(filepath.Join(dumpDir, name+".golden.png"), want); err != nil {
			return err
		}
	}
	return fmt.Errorf("%s: %d pixel mismatches\ngot:\n%swant:\n%s", name, mismatches, Format(got), Format(want))
}

func dump(path string, img *mono.Image) error {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o640)
}
