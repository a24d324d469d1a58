// Package bresenham implements a line stepper with the Bresenham
// algorithm.
package bresenham

import (
	"image"
	"iter"
)

type Line struct {
	p image.Point
	// d is the minor axis error, doubled.
	d int
	// dmajor, dminor is the absolute line vector.
	dmajor, dminor int
	// major and minor are the unit steps along each axis.
	major, minor image.Point
}

// Reset the stepper to walk from p0 to p1. It returns the number of
// steps.
func (l *Line) Reset(p0, p1 image.Point) int {
	dist := p1.Sub(p0)
	sx, sy := 1, 1
	if dist.X < 0 {
		sx = -1
		dist.X = -dist.X
	}
	if dist.Y < 0 {
		sy = -1
		dist.Y = -dist.Y
	}
	l.p = p0
	l.major, l.minor = image.Pt(sx, 0), image.Pt(0, sy)
	if dist.Y > dist.X {
		l.major, l.minor = l.minor, l.major
		dist.X, dist.Y = dist.Y, dist.X
	}
	l.dmajor, l.dminor = dist.X, dist.Y
	l.d = 2*l.dminor - l.dmajor
	return l.dmajor
}

// Step advances one pixel along the major axis and returns the new
// position.
func (l *Line) Step() image.Point {
	l.p = l.p.Add(l.major)
	if l.d > 0 {
		l.p = l.p.Add(l.minor)
		l.d -= 2 * l.dmajor
	}
	l.d += 2 * l.dminor
	return l.p
}

// Points yields every pixel of the line from p0 to p1, end points
// included.
func Points(p0, p1 image.Point) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		var l Line
		steps := l.Reset(p0, p1)
		if !yield(p0) {
			return
		}
		for range steps {
			if !yield(l.Step()) {
				return
			}
		}
	}
}
