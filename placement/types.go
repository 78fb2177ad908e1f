package placement

import "github.com/nicolagi/kicadcore/board"

// Component is one footprint's placement state: its reference, centre
// position, estimated bbox, and whether it is excluded from movement
// (§4.J).
type Component struct {
	Reference string
	X, Y       float64
	Width, Height float64
	Locked     bool
}

// minBBoxDimension is the clamp floor for a per-footprint bbox
// estimate (§4.J "Per-footprint bbox estimate").
const minBBoxDimension = 0.1

// defaultBBoxDimension is used for pad-less footprints.
const defaultBBoxDimension = 1.0

// EstimateBBox returns fp's axis-aligned span in footprint-relative
// coordinates: the extent of its pads' positions and sizes, each
// dimension clamped to a small positive minimum. Pad-less footprints
// get a 1mm x 1mm default (§4.J).
func EstimateBBox(fp board.Footprint) (width, height float64) {
	if len(fp.Pads) == 0 {
		return defaultBBoxDimension, defaultBBoxDimension
	}
	minX, minY := fp.Pads[0].Position.X-fp.Pads[0].Width/2, fp.Pads[0].Position.Y-fp.Pads[0].Height/2
	maxX, maxY := fp.Pads[0].Position.X+fp.Pads[0].Width/2, fp.Pads[0].Position.Y+fp.Pads[0].Height/2
	for _, pad := range fp.Pads[1:] {
		x0, y0 := pad.Position.X-pad.Width/2, pad.Position.Y-pad.Height/2
		x1, y1 := pad.Position.X+pad.Width/2, pad.Position.Y+pad.Height/2
		if x0 < minX {
			minX = x0
		}
		if y0 < minY {
			minY = y0
		}
		if x1 > maxX {
			maxX = x1
		}
		if y1 > maxY {
			maxY = y1
		}
	}
	width = maxX - minX
	if width < minBBoxDimension {
		width = minBBoxDimension
	}
	height = maxY - minY
	if height < minBBoxDimension {
		height = minBBoxDimension
	}
	return width, height
}

// BuildComponents converts footprints into placement Components, each
// carrying its current position and bbox estimate; references in
// locked are excluded from movement.
func BuildComponents(footprints []board.Footprint, locked []string) []*Component {
	lockedSet := make(map[string]bool, len(locked))
	for _, ref := range locked {
		lockedSet[ref] = true
	}
	components := make([]*Component, len(footprints))
	for i, fp := range footprints {
		w, h := EstimateBBox(fp)
		components[i] = &Component{
			Reference: fp.Reference,
			X:         fp.Position.X,
			Y:         fp.Position.Y,
			Width:     w,
			Height:    h,
			Locked:    lockedSet[fp.Reference],
		}
	}
	return components
}

// Edge is a weighted connection between two components by reference.
type Edge struct {
	A, B   string
	Weight int
}

// BuildNetMembership maps each net number to the distinct component
// references with at least one pad on that net. Net 0 ("no net") is
// never included.
func BuildNetMembership(footprints []board.Footprint) map[int][]string {
	netComponents := make(map[int]map[string]bool)
	for _, fp := range footprints {
		seen := make(map[int]bool)
		for _, pad := range fp.Pads {
			if pad.NetNumber <= 0 || seen[pad.NetNumber] {
				continue
			}
			seen[pad.NetNumber] = true
			if netComponents[pad.NetNumber] == nil {
				netComponents[pad.NetNumber] = make(map[string]bool)
			}
			netComponents[pad.NetNumber][fp.Reference] = true
		}
	}
	members := make(map[int][]string, len(netComponents))
	for net, refs := range netComponents {
		list := make([]string, 0, len(refs))
		for ref := range refs {
			list = append(list, ref)
		}
		members[net] = list
	}
	return members
}

// BuildConnectivity derives, for every pair of components with at
// least one net in common, the number of nets they share (§4.J
// "Connectivity"). Net 0 ("no net") is never a connection.
func BuildConnectivity(footprints []board.Footprint) []Edge {
	weights := make(map[[2]string]int)
	for _, list := range BuildNetMembership(footprints) {
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a, b := list[i], list[j]
				if a > b {
					a, b = b, a
				}
				weights[[2]string{a, b}]++
			}
		}
	}

	edges := make([]Edge, 0, len(weights))
	for pair, w := range weights {
		edges = append(edges, Edge{A: pair[0], B: pair[1], Weight: w})
	}
	return edges
}
