package placement

import "math"

// HPWL computes the half-perimeter wire length objective: for each
// net, (max_x - min_x) + (max_y - min_y) over its component centres,
// summed across nets (§4.J).
func HPWL(byRef map[string]*Component, netMembership map[int][]string) float64 {
	var total float64
	for _, refs := range netMembership {
		if len(refs) < 2 {
			continue
		}
		first := true
		var minX, minY, maxX, maxY float64
		for _, ref := range refs {
			c, ok := byRef[ref]
			if !ok {
				continue
			}
			if first {
				minX, maxX = c.X, c.X
				minY, maxY = c.Y, c.Y
				first = false
				continue
			}
			minX = math.Min(minX, c.X)
			maxX = math.Max(maxX, c.X)
			minY = math.Min(minY, c.Y)
			maxY = math.Max(maxY, c.Y)
		}
		if first {
			continue
		}
		total += (maxX - minX) + (maxY - minY)
	}
	return total
}

// countOverlaps returns the number of component pairs whose padded
// bboxes intersect.
func countOverlaps(components []*Component, clearance float64) int {
	count := 0
	for i := 0; i < len(components); i++ {
		bi := components[i].paddedBBox(clearance)
		for j := i + 1; j < len(components); j++ {
			bj := components[j].paddedBBox(clearance)
			if boxesOverlap(bi, bj) {
				count++
			}
		}
	}
	return count
}
