// Package st7567 drives 128x64 monochrome LCD modules built on the
// Sitronix ST7567 controller over SPI.
package st7567

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"monoscreen.org/image/mono"
)

const (
	Width  = 128
	Height = 64

	pages = Height / 8
)

// Config names the SPI port and GPIO pins of the module. Empty names
// select the defaults of the common Raspberry Pi HATs.
type Config struct {
	Port      string
	Reset     string
	DataCmd   string
	Backlight string
	// Contrast is the electronic volume, 0-63.
	Contrast uint8
}

type LCD struct {
	port      spi.PortCloser
	conn      spi.Conn
	rst, dc   gpio.PinOut
	backlight gpio.PinOut
	contrast  uint8
	pages     [pages * Width]byte
}

func Open(cfg Config) (*LCD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("st7567: %w", err)
	}
	pin := func(name, def string) (gpio.PinOut, error) {
		if name == "" {
			name = def
		}
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("st7567: no pin %s", name)
		}
		return p, nil
	}
	rst, err := pin(cfg.Reset, "GPIO27")
	if err != nil {
		return nil, err
	}
	dc, err := pin(cfg.DataCmd, "GPIO25")
	if err != nil {
		return nil, err
	}
	bl, err := pin(cfg.Backlight, "GPIO24")
	if err != nil {
		return nil, err
	}
	p, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("st7567: %w", err)
	}
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("st7567: %w", err)
	}
	contrast := cfg.Contrast
	if contrast == 0 {
		contrast = 0x20
	}
	l := &LCD{
		port:      p,
		conn:      c,
		rst:       rst,
		dc:        dc,
		backlight: bl,
		contrast:  contrast & 0x3f,
	}
	if err := l.setup(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *LCD) Close() {
	if l.port == nil {
		return
	}
	l.backlight.Out(gpio.Low)
	l.port.Close()
	l.port = nil
	l.conn = nil
}

func (l *LCD) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

func (l *LCD) sendCommand(cmd ...byte) error {
	if err := l.dc.Out(gpio.Low); err != nil {
		return err
	}
	return l.conn.Tx(cmd, nil)
}

func (l *LCD) sendData(data []byte) error {
	if err := l.dc.Out(gpio.High); err != nil {
		return err
	}
	return l.conn.Tx(data, nil)
}

func (l *LCD) setup() error {
	for _, p := range []gpio.PinOut{l.rst, l.dc, l.backlight} {
		if err := p.Out(gpio.Low); err != nil {
			return fmt.Errorf("st7567: %w", err)
		}
	}
	time.Sleep(10 * time.Millisecond)
	l.rst.Out(gpio.High)
	time.Sleep(10 * time.Millisecond)

	var cmdErr error
	sendCommand := func(cmd ...byte) {
		if cmdErr != nil {
			return
		}
		cmdErr = l.sendCommand(cmd...)
	}
	sendCommand(0xe2 /* software reset */)
	time.Sleep(5 * time.Millisecond)
	sendCommand(0xa2 /* bias 1/9 */)
	sendCommand(0xa0 /* SEG normal */)
	sendCommand(0xc8 /* COM reverse */)
	sendCommand(0x25 /* regulation ratio 5.5 */)
	sendCommand(0x81 /* electronic volume */, l.contrast)
	sendCommand(0x2f /* booster, regulator and follower on */)
	sendCommand(0x40 /* start line 0 */)
	sendCommand(0xa6 /* normal display */)
	sendCommand(0xa4 /* show RAM */)
	sendCommand(0xaf /* display on */)
	if cmdErr != nil {
		return fmt.Errorf("st7567: SPI command: %w", cmdErr)
	}
	return nil
}

// Draw transfers img to the display RAM and turns on the backlight.
func (l *LCD) Draw(img *mono.Image) error {
	Pages(l.pages[:], img)
	for p := 0; p < pages; p++ {
		if err := l.sendCommand(0xb0|byte(p), 0x10, 0x00); err != nil {
			return fmt.Errorf("st7567: page %d: %w", p, err)
		}
		if err := l.sendData(l.pages[p*Width : (p+1)*Width]); err != nil {
			return fmt.Errorf("st7567: page %d: %w", p, err)
		}
	}
	if err := l.backlight.Out(gpio.High); err != nil {
		return fmt.Errorf("st7567: %w", err)
	}
	return nil
}

// Pages packs img into controller page order: one byte per column per
// band of 8 rows, the topmost row in the least significant bit. dst
// must hold Width*Height/8 bytes.
func Pages(dst []byte, img *mono.Image) {
	b := img.Bounds()
	for p := 0; p < pages; p++ {
		for x := 0; x < Width; x++ {
			var v byte
			for bit := 0; bit < 8; bit++ {
				if img.BitAt(b.Min.X+x, b.Min.Y+p*8+bit) {
					v |= 1 << bit
				}
			}
			dst[p*Width+x] = v
		}
	}
}
