// Package serialfb streams frames to a remote display over a serial
// line. Every frame is a CBOR array of sequence number, size and packed
// pixels.
package serialfb

import (
	"errors"
	"fmt"
	"image"
	"io"
	"runtime"

	"github.com/fxamacker/cbor/v2"
	"github.com/tarm/serial"
	"monoscreen.org/image/mono"
)

// Frame is the wire form of a frame. Pix holds rows of (Width+7)/8
// bytes, least significant bit first, set bits dark.
type Frame struct {
	_      struct{} `cbor:",toarray"`
	Seq    uint32
	Width  int
	Height int
	Pix    []byte
}

const baudRate = 115200

// MaxSize bounds the width and height of decoded frames.
const MaxSize = 4096

// Open the serial device dev, or the first available default device if
// dev is empty.
func Open(dev string) (io.ReadWriteCloser, error) {
	var devices []string
	if dev != "" {
		devices = append(devices, dev)
	} else {
		switch runtime.GOOS {
		case "windows":
			devices = append(devices, "COM3")
		case "linux":
			devices = append(devices, "/dev/ttyUSB0", "/dev/ttyACM0")
		}
	}
	if len(devices) == 0 {
		return nil, errors.New("serialfb: no device specified")
	}
	var firstErr error
	for _, dev := range devices {
		c := &serial.Config{Name: dev, Baud: baudRate}
		s, err := serial.OpenPort(c)
		if err == nil {
			return s, nil
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("serialfb: %w", err)
		}
	}
	return nil, firstErr
}

type Panel struct {
	enc *cbor.Encoder
	seq uint32
}

func NewPanel(w io.Writer) *Panel {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		// Valid by construction.
		panic(err)
	}
	return &Panel{enc: mode.NewEncoder(w)}
}

// Draw sends img as the next frame.
func (p *Panel) Draw(img *mono.Image) error {
	f := Frame{
		Seq:    p.seq,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Pix:    pack(img),
	}
	p.seq++
	if err := p.enc.Encode(f); err != nil {
		return fmt.Errorf("serialfb: frame %d: %w", f.Seq, err)
	}
	return nil
}

// pack returns the pixels of img in wire order, whatever its origin.
func pack(img *mono.Image) []byte {
	b := img.Bounds()
	if b.Min == (image.Point{}) {
		return img.Pix[:img.Stride*b.Dy()]
	}
	dst := mono.New(image.Rectangle{Max: b.Size()})
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetBit(x-b.Min.X, y-b.Min.Y, img.BitAt(x, y))
		}
	}
	return dst.Pix
}

type Decoder struct {
	dec *cbor.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	mode, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return &Decoder{dec: mode.NewDecoder(r)}
}

// Decode reads the next frame and returns its sequence number and
// pixels.
func (d *Decoder) Decode() (uint32, *mono.Image, error) {
	var f Frame
	if err := d.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("serialfb: %w", err)
	}
	if f.Width < 0 || f.Height < 0 || f.Width > MaxSize || f.Height > MaxSize {
		return 0, nil, fmt.Errorf("serialfb: frame %d: invalid size %dx%d", f.Seq, f.Width, f.Height)
	}
	if stride := (f.Width + 7) / 8; len(f.Pix) != stride*f.Height {
		return 0, nil, fmt.Errorf("serialfb: frame %d: %d bytes of pixels for %dx%d", f.Seq, len(f.Pix), f.Width, f.Height)
	}
	img := mono.New(image.Rect(0, 0, f.Width, f.Height))
	copy(img.Pix, f.Pix)
	return f.Seq, img, nil
}
