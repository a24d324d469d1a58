package main

import (
	"monoscreen.org/display"
	"monoscreen.org/driver/fbdev"
)

func openFramebuffer(dev string, scale int) (display.Panel, func(), error) {
	p, err := fbdev.Open(dev, scale)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
