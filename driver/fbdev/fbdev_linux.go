package fbdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
	"monoscreen.org/image/mono"
)

type Panel struct {
	fd     int
	mmap   []byte
	layout Layout
	scale  int
}

// Open maps the framebuffer device dev, for example /dev/fb0. Frames
// are enlarged by scale.
func Open(dev string, scale int) (*Panel, error) {
	l, err := readLayout(filepath.Base(dev))
	if err != nil {
		return nil, err
	}
	if err := l.check(); err != nil {
		return nil, err
	}
	fd, err := unix.Open(dev, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: %s: %w", dev, err)
	}
	mmap, err := unix.Mmap(fd, 0, l.Stride*l.Height, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fbdev: framebuffer mmap failed: %w", err)
	}
	return &Panel{fd: fd, mmap: mmap, layout: l, scale: scale}, nil
}

// readLayout reads the framebuffer geometry from sysfs.
func readLayout(name string) (Layout, error) {
	dir := filepath.Join("/sys/class/graphics", name)
	attr := func(name string) (string, error) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("fbdev: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	atoi := func(name string) (int, error) {
		s, err := attr(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("fbdev: %s: %w", name, err)
		}
		return v, nil
	}
	var l Layout
	size, err := attr("virtual_size")
	if err != nil {
		return l, err
	}
	if _, err := fmt.Sscanf(size, "%d,%d", &l.Width, &l.Height); err != nil {
		return l, fmt.Errorf("fbdev: virtual_size %q: %w", size, err)
	}
	if l.BitsPerPixel, err = atoi("bits_per_pixel"); err != nil {
		return l, err
	}
	if l.Stride, err = atoi("stride"); err != nil {
		return l, err
	}
	return l, nil
}

func (p *Panel) Draw(img *mono.Image) error {
	blit(p.mmap, p.layout, img, p.scale)
	return nil
}

func (p *Panel) Close() {
	if p.mmap != nil {
		unix.Munmap(p.mmap)
	}
	unix.Close(p.fd)
	*p = Panel{}
}
