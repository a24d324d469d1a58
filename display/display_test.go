package display

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"monoscreen.org/canvas"
	"monoscreen.org/image/mono"
)

type panelFunc func(img *mono.Image) error

func (f panelFunc) Draw(img *mono.Image) error { return f(img) }

func TestCommitIsolation(t *testing.T) {
	fb := New(16, 8)
	c := canvas.New(16, 8, fb)
	c.DrawDot(3, 4)
	c.Commit()
	c.DrawDot(5, 5)
	snap := mono.New(fb.Bounds())
	fb.Snapshot(snap)
	if !snap.BitAt(3, 4) {
		t.Error("committed pixel missing from snapshot")
	}
	if snap.BitAt(5, 5) {
		t.Error("uncommitted pixel visible in snapshot")
	}
}

func TestRedrawCoalesces(t *testing.T) {
	fb := New(8, 8)
	img := mono.New(fb.Bounds())
	for range 5 {
		fb.Commit(img)
	}
	select {
	case <-fb.Redraw():
	default:
		t.Fatal("no redraw signalled")
	}
	select {
	case <-fb.Redraw():
		t.Error("commits were not coalesced")
	default:
	}
}

func TestRun(t *testing.T) {
	fb := New(8, 8)
	frames := make(chan *mono.Image)
	panel := panelFunc(func(img *mono.Image) error {
		cpy := mono.New(img.Bounds())
		cpy.CopyFrom(img)
		frames <- cpy
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, fb, panel)
	}()
	img := mono.New(fb.Bounds())
	img.SetBit(1, 2, true)
	fb.Commit(img)
	select {
	case f := <-frames:
		if !f.BitAt(1, 2) {
			t.Error("panel did not receive the committed frame")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no frame drawn")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want %v", err, context.Canceled)
	}
}

func TestRunPanelError(t *testing.T) {
	fb := New(8, 8)
	errPanel := errors.New("panel unplugged")
	fb.Commit(mono.New(fb.Bounds()))
	err := Run(context.Background(), fb, panelFunc(func(*mono.Image) error {
		return errPanel
	}))
	if !errors.Is(err, errPanel) {
		t.Errorf("got %v, want %v", err, errPanel)
	}
}

func TestConcurrentCommit(t *testing.T) {
	fb := New(64, 64)
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img := mono.New(fb.Bounds())
			img.Fill(i%2 == 0)
			for range 100 {
				fb.Commit(img)
			}
		}()
	}
	snap := mono.New(fb.Bounds())
	for range 100 {
		fb.Snapshot(snap)
		// Every commit writes a uniform frame, so a snapshot must be
		// uniform too.
		first := snap.Pix[0]
		for _, b := range snap.Pix {
			if b != first {
				t.Fatal("snapshot observed a partial commit")
			}
		}
	}
	wg.Wait()
}
