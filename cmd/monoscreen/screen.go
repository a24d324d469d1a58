package main

import (
	"time"

	"monoscreen.org/canvas"
	"monoscreen.org/font/fonts"
)

const title = "monoscreen"

// drawScreen draws the status screen: a title bar, the time of day and
// the date, or a QR code of qr if it is not empty.
func drawScreen(c *canvas.Canvas, now time.Time, qr string) error {
	c.Reset()
	w, h := c.Width(), c.Height()
	c.DrawRoundedFrame(0, 0, w, h, 3)

	c.SetFont(fonts.Primary)
	if err := c.DrawString(5, 13, title); err != nil {
		return err
	}
	c.DrawHorizontalLine(1, 16, w-2)
	// Seconds indicator.
	if now.Second()%2 == 0 {
		c.DrawDisc(w-9, 8, 3)
	} else {
		c.DrawCircle(w-9, 8, 3)
	}

	if qr != "" {
		c.SetFrame(0, 17, w, h-17)
		defer c.SetFrame(0, 0, w, h)
		r, err := c.DrawQR(2, 0, 1, qr)
		if err != nil {
			return err
		}
		c.SetFont(fonts.Secondary)
		return c.DrawString(r.Dx()+4, 24, now.Format("15:04"))
	}

	c.SetFont(fonts.BigNumbers)
	clock := now.Format("15:04:05")
	cw, err := c.StringWidth(clock)
	if err != nil {
		return err
	}
	if err := c.DrawString((w-cw)/2, 41, clock); err != nil {
		return err
	}
	c.SetFont(fonts.Secondary)
	date := now.Format("Mon 2 Jan 2006")
	dw, err := c.StringWidth(date)
	if err != nil {
		return err
	}
	return c.DrawString((w-dw)/2, h-5, date)
}
