package board

import "math"

// rotate rotates the point (x, y) by angleDeg degrees about the
// origin, matching KiCad's convention of positive angles rotating
// clockwise in its y-down coordinate system.
func rotate(x, y, angleDeg float64) (rx, ry float64) {
	if angleDeg == 0 {
		return x, y
	}
	theta := angleDeg * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)
	return x*cos - y*sin, x*sin + y*cos
}
