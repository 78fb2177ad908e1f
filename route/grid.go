package route

import (
	"math"

	"github.com/nicolagi/kicadcore/board"
)

// cellKey addresses one grid cell on one layer.
type cellKey struct {
	Col, Row, Layer int
}

// Grid is a sparse multi-layer obstacle map over a board's copper
// (§4.G). Only blocked/owned cells are stored; the vast majority of
// cells on a typical board are never touched.
type Grid struct {
	OriginX, OriginY float64
	Resolution       float64
	Clearance        float64
	Cols, Rows       int
	Layers           []string

	origColMin, origColMax int
	origRowMin, origRowMax int

	blocked map[cellKey]bool
	owner   map[cellKey]int
}

// NewGrid builds an obstacle grid from footprints and segments inside
// bbox, expanded by clearance on every side, across layers (default
// copper stack order matters: layer 0 is the preferred routing layer).
// If targetNet is non-negative, its own copper is cleared so the
// router can thread through it (§4.G step 5).
func NewGrid(footprints []board.Footprint, segments []board.Segment, bbox board.BoundingBox, layers []string, resolution, clearance float64, targetNet int) *Grid {
	expanded := bbox.Expand(clearance)
	g := &Grid{
		OriginX:    expanded.MinX,
		OriginY:    expanded.MinY,
		Resolution: resolution,
		Clearance:  clearance,
		Layers:     layers,
		Cols:       int(math.Ceil(expanded.Width() / resolution)),
		Rows:       int(math.Ceil(expanded.Height() / resolution)),
		blocked:    make(map[cellKey]bool),
		owner:      make(map[cellKey]int),
	}
	g.origColMin = g.toCol(bbox.MinX)
	g.origColMax = g.toCol(bbox.MaxX)
	g.origRowMin = g.toRow(bbox.MinY)
	g.origRowMax = g.toRow(bbox.MaxY)

	g.blockOutsideBoundary()
	for _, fp := range footprints {
		g.blockFootprint(fp)
	}
	for _, seg := range segments {
		g.blockSegment(seg)
	}
	if targetNet >= 0 {
		g.ClearNet(targetNet)
	}
	return g
}

func (g *Grid) toCol(x float64) int {
	return int(math.Round((x - g.OriginX) / g.Resolution))
}

func (g *Grid) toRow(y float64) int {
	return int(math.Round((y - g.OriginY) / g.Resolution))
}

// ToCell converts board coordinates to the nearest grid cell (§4.G
// "coordinate conversion").
func (g *Grid) ToCell(x, y float64) (col, row int) {
	return g.toCol(x), g.toRow(y)
}

// ToCoord converts a grid cell back to board coordinates.
func (g *Grid) ToCoord(col, row int) (x, y float64) {
	return g.OriginX + float64(col)*g.Resolution, g.OriginY + float64(row)*g.Resolution
}

// LayerIndex returns the index of name in g.Layers.
func (g *Grid) LayerIndex(name string) (int, bool) {
	for i, l := range g.Layers {
		if l == name {
			return i, true
		}
	}
	return 0, false
}

// InBounds reports whether (col, row, layer) addresses a real cell.
func (g *Grid) InBounds(col, row, layer int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows && layer >= 0 && layer < len(g.Layers)
}

// Block marks (col, row, layer) obstructed, optionally owned by net
// (pass -1 for no owner). Exposed for callers composing obstacles from
// sources other than footprints and segments, such as manual keepout
// zones.
func (g *Grid) Block(col, row, layer, net int) {
	g.block(col, row, layer, net)
}

// Blocked reports whether (col, row, layer) is obstructed.
func (g *Grid) Blocked(col, row, layer int) bool {
	return g.blocked[cellKey{col, row, layer}]
}

// Owner returns the net number that owns (col, row, layer), if any.
func (g *Grid) Owner(col, row, layer int) (int, bool) {
	n, ok := g.owner[cellKey{col, row, layer}]
	return n, ok
}

// block marks (col, row, layer) obstructed and, if net is non-negative,
// records its ownership.
func (g *Grid) block(col, row, layer, net int) {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return
	}
	k := cellKey{col, row, layer}
	g.blocked[k] = true
	if net >= 0 {
		g.owner[k] = net
	}
}

// ClearNet removes every cell owned by net from both the ownership map
// and the blocked set, leaving cells owned by other nets (even if they
// geometrically coincide) untouched (§4.G "net clear").
func (g *Grid) ClearNet(net int) {
	for k, owner := range g.owner {
		if owner == net {
			delete(g.owner, k)
			delete(g.blocked, k)
		}
	}
}

// blockOutsideBoundary blocks every cell whose column or row falls
// outside the board's unexpanded bbox, on every layer, enforcing the
// outline as a hard boundary (§4.G step 2).
func (g *Grid) blockOutsideBoundary() {
	for layer := range g.Layers {
		for col := 0; col < g.Cols; col++ {
			for row := 0; row < g.Rows; row++ {
				if col < g.origColMin || col > g.origColMax || row < g.origRowMin || row > g.origRowMax {
					g.block(col, row, layer, -1)
				}
			}
		}
	}
}

func padClaimsLayer(padLayers []string, layer string) bool {
	for _, l := range padLayers {
		if l == layer || l == "*.Cu" {
			return true
		}
	}
	return false
}

// blockFootprint blocks every pad's axis-aligned bounding box, expanded
// by clearance, on every layer the pad claims (§4.G step 3).
func (g *Grid) blockFootprint(fp board.Footprint) {
	for _, pad := range fp.Pads {
		center := board.AbsolutePadPosition(fp, pad)
		halfW := pad.Width/2 + g.Clearance
		halfH := pad.Height/2 + g.Clearance
		colMin := g.toCol(center.X - halfW)
		colMax := g.toCol(center.X + halfW)
		rowMin := g.toRow(center.Y - halfH)
		rowMax := g.toRow(center.Y + halfH)
		for layerIndex, layerName := range g.Layers {
			if !padClaimsLayer(pad.Layers, layerName) {
				continue
			}
			for col := colMin; col <= colMax; col++ {
				for row := rowMin; row <= rowMax; row++ {
					g.block(col, row, layerIndex, pad.NetNumber)
				}
			}
		}
	}
}

// perpendicularDistance returns the distance from point (px,py) to the
// segment (ax,ay)-(bx,by), clamping the projection to the segment and
// falling back to point distance when the segment is near-zero length.
func perpendicularDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(px-cx, py-cy)
}

// blockSegment blocks every cell within width/2+clearance of the
// segment's centerline, on the segment's layer only (§4.G step 4).
func (g *Grid) blockSegment(seg board.Segment) {
	layerIndex, ok := g.LayerIndex(seg.Layer)
	if !ok {
		return
	}
	threshold := seg.Width/2 + g.Clearance
	minX := math.Min(seg.Start.X, seg.End.X) - threshold
	maxX := math.Max(seg.Start.X, seg.End.X) + threshold
	minY := math.Min(seg.Start.Y, seg.End.Y) - threshold
	maxY := math.Max(seg.Start.Y, seg.End.Y) + threshold
	colMin, colMax := g.toCol(minX), g.toCol(maxX)
	rowMin, rowMax := g.toRow(minY), g.toRow(maxY)
	for col := colMin; col <= colMax; col++ {
		for row := rowMin; row <= rowMax; row++ {
			cx, cy := g.ToCoord(col, row)
			if perpendicularDistance(cx, cy, seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y) <= threshold {
				g.block(col, row, layerIndex, seg.Net)
			}
		}
	}
}

// blockLine blocks a thin obstacle (half-width = resolution/2, no
// clearance) along (ax,ay)-(bx,by) on layer, owned by net. Used by the
// batch router to prevent later nets from crossing earlier, already
// routed copper (§4.I step 3.d).
func (g *Grid) blockLine(ax, ay, bx, by float64, layer, net int) {
	threshold := g.Resolution / 2
	colMin, colMax := g.toCol(math.Min(ax, bx)-threshold), g.toCol(math.Max(ax, bx)+threshold)
	rowMin, rowMax := g.toRow(math.Min(ay, by)-threshold), g.toRow(math.Max(ay, by)+threshold)
	for col := colMin; col <= colMax; col++ {
		for row := rowMin; row <= rowMax; row++ {
			cx, cy := g.ToCoord(col, row)
			if perpendicularDistance(cx, cy, ax, ay, bx, by) <= threshold {
				g.block(col, row, layer, net)
			}
		}
	}
}
