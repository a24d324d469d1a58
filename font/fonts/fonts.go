// Package fonts is the fixed set of display fonts, each encoded as a
// u8g2 font table the first time it is used.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/font/opentype"
	"monoscreen.org/font/u8g2"
)

type Font int

const (
	Primary Font = iota
	Secondary
	Keyboard
	BigNumbers
)

func (f Font) String() string {
	switch f {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Keyboard:
		return "keyboard"
	case BigNumbers:
		return "bignumbers"
	default:
		return fmt.Sprintf("Font(%d)", int(f))
	}
}

// Latin1 is the printable ISO 8859-1 repertoire.
func Latin1() []rune {
	var runes []rune
	for r := rune(0x20); r <= 0xff; r++ {
		if r < 0x7f || r >= 0xa0 {
			runes = append(runes, r)
		}
	}
	return runes
}

const bigNumbersSet = " +,-./0123456789:"

var tables = [...]func() (*u8g2.Font, error){
	Primary: sync.OnceValues(func() (*u8g2.Font, error) {
		return build(inconsolata.Bold8x16, Latin1())
	}),
	Secondary: sync.OnceValues(func() (*u8g2.Font, error) {
		return build(basicfont.Face7x13, Latin1())
	}),
	Keyboard: sync.OnceValues(func() (*u8g2.Font, error) {
		return build(inconsolata.Regular8x16, Latin1())
	}),
	BigNumbers: sync.OnceValues(func() (*u8g2.Font, error) {
		f, err := opentype.Parse(gomonobold.TTF)
		if err != nil {
			return nil, err
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    22,
			DPI:     72, // Size is in pixels.
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, err
		}
		defer face.Close()
		return build(face, []rune(bigNumbersSet))
	}),
}

func build(face font.Face, runes []rune) (*u8g2.Font, error) {
	data, err := u8g2.Build(face, runes)
	if err != nil {
		return nil, err
	}
	return u8g2.Parse(data)
}

// Table returns the font table for f. It panics if f is not one of the
// defined fonts.
func Table(f Font) *u8g2.Font {
	if f < 0 || int(f) >= len(tables) {
		panic(fmt.Sprintf("fonts: unknown font %d", int(f)))
	}
	t, err := tables[f]()
	if err != nil {
		panic(fmt.Errorf("fonts: %v: %w", f, err))
	}
	return t
}
