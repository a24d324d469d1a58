// Command monoscreen draws a status screen on a monochrome display
// panel, or into PNG files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monoscreen.org/canvas"
	"monoscreen.org/display"
	"monoscreen.org/driver/pngdump"
	"monoscreen.org/driver/serialfb"
	"monoscreen.org/driver/sixel"
	"monoscreen.org/driver/st7567"
	"monoscreen.org/driver/term"
	"monoscreen.org/image/mono"
)

// Version is set by the Go linker with -ldflags='-X main.Version=...'.
var Version string

var (
	panelFlag = flag.String("panel", "png", "display panel: png, st7567, fbdev, serial, term or sixel")
	output    = flag.String("out", "screen.png", "output file for the png panel; %d is replaced by the frame number")
	device    = flag.String("device", "", "SPI port, framebuffer or serial device")
	scale     = flag.Int("scale", 4, "pixel scale for the png, fbdev and sixel panels")
	width     = flag.Int("width", st7567.Width, "screen width")
	height    = flag.Int("height", st7567.Height, "screen height")
	frames    = flag.Int("frames", 0, "number of frames to draw; 0 draws until interrupted, or one frame for the png panel")
	qrContent = flag.String("qr", "", "show a QR code of the content")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "monoscreen: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	flag.Parse()
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	if *width <= 0 || *height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", *width, *height)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	panel, closePanel, err := openPanel(*panelFlag, cancel)
	if err != nil {
		return err
	}
	defer closePanel()
	n := *frames
	if n == 0 && *panelFlag == "png" {
		n = 1
	}
	if Version != "" {
		log.Printf("monoscreen %s", Version)
	}
	log.Printf("panel: %s %dx%d", *panelFlag, *width, *height)

	fb := display.New(*width, *height)
	c := canvas.New(*width, *height, fb)
	if n > 0 {
		return drawFrames(ctx, c, fb, panel, n, time.Second)
	}

	refresh := make(chan error, 1)
	go func() {
		refresh <- display.Run(ctx, fb, panel)
	}()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		if err := drawScreen(c, time.Now(), *qrContent); err != nil {
			return err
		}
		c.Commit()
		select {
		case <-ctx.Done():
			log.Printf("interrupted")
			return nil
		case err := <-refresh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-tick.C:
		}
	}
}

// drawFrames draws n frames interval apart, synchronously so every frame
// reaches the panel. It stops early when ctx is done.
func drawFrames(ctx context.Context, c *canvas.Canvas, fb *display.Framebuffer, panel display.Panel, n int, interval time.Duration) error {
	img := mono.New(fb.Bounds())
	for i := 0; i < n; i++ {
		if err := drawScreen(c, time.Now(), *qrContent); err != nil {
			return err
		}
		c.Commit()
		fb.Snapshot(img)
		if err := panel.Draw(img); err != nil {
			return err
		}
		if i == n-1 {
			break
		}
		select {
		case <-ctx.Done():
			log.Printf("interrupted")
			return nil
		case <-time.After(interval):
		}
	}
	return nil
}

// openPanel opens the named panel. Panels that read input call quit
// when asked to exit.
func openPanel(name string, quit func()) (display.Panel, func(), error) {
	switch name {
	case "png":
		return &pngdump.Panel{Path: *output, Scale: *scale}, func() {}, nil
	case "st7567":
		if *width != st7567.Width || *height != st7567.Height {
			return nil, nil, fmt.Errorf("st7567: screen must be %dx%d", st7567.Width, st7567.Height)
		}
		lcd, err := st7567.Open(st7567.Config{Port: *device})
		if err != nil {
			return nil, nil, err
		}
		return lcd, lcd.Close, nil
	case "fbdev":
		dev := *device
		if dev == "" {
			dev = "/dev/fb0"
		}
		return openFramebuffer(dev, *scale)
	case "serial":
		port, err := serialfb.Open(*device)
		if err != nil {
			return nil, nil, err
		}
		return serialfb.NewPanel(port), func() { port.Close() }, nil
	case "term":
		p, err := term.Open(quit)
		if err != nil {
			return nil, nil, err
		}
		// Log lines would scroll the screen.
		log.SetOutput(io.Discard)
		return p, p.Close, nil
	case "sixel":
		return sixel.New(os.Stdout, *scale), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown panel %q", name)
	}
}
