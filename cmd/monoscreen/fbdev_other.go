//go:build !linux

package main

import (
	"errors"

	"monoscreen.org/display"
)

func openFramebuffer(dev string, scale int) (display.Panel, func(), error) {
	return nil, nil, errors.New("fbdev: framebuffer devices are only supported on Linux")
}
