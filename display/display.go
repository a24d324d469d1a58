// Package display holds the committed frame shared between drawing code
// and the goroutine refreshing a panel.
package display

import (
	"context"
	"fmt"
	"image"
	"sync"

	"monoscreen.org/image/mono"
)

// Panel is a physical or virtual display.
type Panel interface {
	Draw(img *mono.Image) error
}

type Framebuffer struct {
	mu  sync.Mutex
	img *mono.Image
	// redraw has room for one pending signal; further commits before
	// the refresh loop wakes up coalesce.
	redraw chan struct{}
}

func New(width, height int) *Framebuffer {
	return &Framebuffer{
		img:    mono.New(image.Rect(0, 0, width, height)),
		redraw: make(chan struct{}, 1),
	}
}

func (f *Framebuffer) Bounds() image.Rectangle {
	return f.img.Bounds()
}

// Commit copies src into the framebuffer and signals a redraw. The lock
// is released before signalling.
func (f *Framebuffer) Commit(src *mono.Image) {
	f.mu.Lock()
	f.img.CopyFrom(src)
	f.mu.Unlock()
	select {
	case f.redraw <- struct{}{}:
	default:
	}
}

// Redraw returns the channel signalled by Commit.
func (f *Framebuffer) Redraw() <-chan struct{} {
	return f.redraw
}

// Snapshot copies the committed frame into dst.
func (f *Framebuffer) Snapshot(dst *mono.Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dst.CopyFrom(f.img)
}

// Run draws a snapshot to panel after every commit until ctx is done or
// the panel fails.
func Run(ctx context.Context, fb *Framebuffer, panel Panel) error {
	img := mono.New(fb.Bounds())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fb.Redraw():
		}
		fb.Snapshot(img)
		if err := panel.Draw(img); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}
