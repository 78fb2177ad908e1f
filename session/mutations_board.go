package session

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/nicolagi/kicadcore/sexp"
)

// ApplyCreateZone appends a `zone` node with the polygon outline,
// hatch, connect-pads clearance, and fill settings (§4.F). Rejects
// polygons with fewer than 3 points.
func ApplyCreateZone(s *Session, net int, layer string, points [][2]float64, minThickness float64, priority int) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, errors.Wrapf(ErrInvalidPolygon, "create_zone: %d points", len(points))
	}
	root := s.working.Root()
	pts := sexp.NewList("pts")
	for _, p := range points {
		pts.Append(sexp.NewList("xy", sexp.NewAtom(formatNum(p[0])), sexp.NewAtom(formatNum(p[1]))))
	}
	zone := sexp.NewList("zone",
		sexp.NewList("net", sexp.NewAtom(formatInt(net))),
		sexp.NewList("layer", sexp.NewAtom(layer)),
		sexp.NewList("uuid", sexp.NewAtom(newUUID())),
		sexp.NewList("hatch", sexp.NewAtom("edge"), sexp.NewAtom("0.5")),
		sexp.NewList("priority", sexp.NewAtom(formatInt(priority))),
		sexp.NewList("connect_pads", sexp.NewList("clearance", sexp.NewAtom("0"))),
		sexp.NewList("min_thickness", sexp.NewAtom(formatNum(minThickness))),
		sexp.NewList("fill", sexp.NewAtom("yes")),
		sexp.NewList("polygon", pts),
	)
	root.Append(zone)
	index := len(root.Children()) - 1
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "create_zone",
		Description:    fmt.Sprintf("create zone on %s for net %d", layer, net),
		Target:         layer,
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(zone),
		undo:           undoRemove(root, index),
	}
	return s.record(rec), nil
}

// removedOutlineNode is a board-outline node removed by
// replaceOutline, retained so undo can reinsert it at its original
// position.
type removedOutlineNode struct {
	index int
	node  *sexp.Node
}

// replaceOutline removes every gr_line/gr_rect whose layer is
// Edge.Cuts and appends the given edge nodes in their place,
// returning enough bookkeeping to undo the whole operation as one
// ChangeRecord (§4.F `set_board_size`, `add_board_outline`).
func replaceOutline(root *sexp.Node, edges []*sexp.Node) (before, after string, undo func() error) {
	var removed []removedOutlineNode
	for i := len(root.Children()) - 1; i >= 0; i-- {
		child := root.Children()[i]
		if !child.IsList() || (child.Head() != "gr_line" && child.Head() != "gr_rect") {
			continue
		}
		layer := child.FirstChild("layer")
		if layer == nil {
			continue
		}
		if v, _ := layer.FirstAtomValue(); v != "Edge.Cuts" {
			continue
		}
		clone, _ := child.Clone()
		removed = append(removed, removedOutlineNode{index: i, node: clone})
		root.RemoveAt(i)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].index < removed[j].index })

	var beforeBuf, afterBuf string
	for _, r := range removed {
		beforeBuf += snapshot(r.node) + "\n"
	}
	insertedAt := len(root.Children())
	for _, e := range edges {
		root.Append(e)
		afterBuf += snapshot(e) + "\n"
	}
	insertedCount := len(edges)

	undo = func() error {
		for i := 0; i < insertedCount; i++ {
			root.RemoveAt(insertedAt)
		}
		for _, r := range removed {
			clone, err := r.node.Clone()
			if err != nil {
				return err
			}
			root.InsertAt(r.index, clone)
		}
		return nil
	}
	return beforeBuf, afterBuf, undo
}

func rectangleEdges(w, h float64) []*sexp.Node {
	corners := [][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}
	var edges []*sexp.Node
	for i := 0; i < 4; i++ {
		start := corners[i]
		end := corners[(i+1)%4]
		edges = append(edges, sexp.NewList("gr_line",
			newNamedPoint("start", start[0], start[1]),
			newNamedPoint("end", end[0], end[1]),
			sexp.NewList("layer", sexp.NewAtom("Edge.Cuts")),
			sexp.NewList("width", sexp.NewAtom("0.05")),
			sexp.NewList("uuid", sexp.NewAtom(newUUID())),
		))
	}
	return edges
}

// ApplySetBoardSize replaces the board's Edge.Cuts outline with a
// w×h axis-aligned rectangle (§4.F).
func ApplySetBoardSize(s *Session, w, h float64) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	before, after, undo := replaceOutline(root, rectangleEdges(w, h))
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "set_board_size",
		Description:    fmt.Sprintf("set board size to %s x %s mm", formatNum(w), formatNum(h)),
		Target:         "Edge.Cuts",
		BeforeSnapshot: before,
		AfterSnapshot:  after,
		undo:           undo,
	}
	return s.record(rec), nil
}

// ApplyAddBoardOutline replaces the board's Edge.Cuts outline with
// the given polygon, connecting consecutive points and closing the
// last point back to the first (§4.F).
func ApplyAddBoardOutline(s *Session, points [][2]float64) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, errors.Wrapf(ErrInvalidPolygon, "add_board_outline: %d points", len(points))
	}
	root := s.working.Root()
	var edges []*sexp.Node
	for i := range points {
		start := points[i]
		end := points[(i+1)%len(points)]
		edges = append(edges, sexp.NewList("gr_line",
			newNamedPoint("start", start[0], start[1]),
			newNamedPoint("end", end[0], end[1]),
			sexp.NewList("layer", sexp.NewAtom("Edge.Cuts")),
			sexp.NewList("width", sexp.NewAtom("0.05")),
			sexp.NewList("uuid", sexp.NewAtom(newUUID())),
		))
	}
	before, after, undo := replaceOutline(root, edges)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "add_board_outline",
		Description:    fmt.Sprintf("add board outline with %d points", len(points)),
		Target:         "Edge.Cuts",
		BeforeSnapshot: before,
		AfterSnapshot:  after,
		undo:           undo,
	}
	return s.record(rec), nil
}

// ApplyAddMountingHole inserts a MountingHole footprint with a single
// np_thru_hole pad (§4.F).
func ApplyAddMountingHole(s *Session, x, y, drill, padDia float64) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	fp := sexp.NewList("footprint", sexp.NewAtom("MountingHole:MountingHole"))
	fp.Append(sexp.NewList("layer", sexp.NewAtom("F.Cu")))
	fp.Append(sexp.NewList("uuid", sexp.NewAtom(newUUID())))
	fp.Append(newAt(x, y, 0, false))
	fp.Append(sexp.NewList("property", sexp.NewAtom("Reference"), sexp.NewAtom("H**")))
	fp.Append(sexp.NewList("property", sexp.NewAtom("Value"), sexp.NewAtom("MountingHole")))
	pad := sexp.NewList("pad", sexp.NewAtom("1"), sexp.NewAtom("np_thru_hole"), sexp.NewAtom("circle"))
	pad.Append(newAt(0, 0, 0, false))
	pad.Append(sexp.NewList("size", sexp.NewAtom(formatNum(padDia)), sexp.NewAtom(formatNum(padDia))))
	pad.Append(sexp.NewList("drill", sexp.NewAtom(formatNum(drill))))
	pad.Append(sexp.NewList("layers", sexp.NewAtom("*.Cu"), sexp.NewAtom("*.Mask")))
	fp.Append(pad)
	root.Append(fp)
	index := len(root.Children()) - 1
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "add_mounting_hole",
		Description:    fmt.Sprintf("add mounting hole at (%s,%s)", formatNum(x), formatNum(y)),
		Target:         fmt.Sprintf("(%s,%s)", formatNum(x), formatNum(y)),
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(fp),
		undo:           undoRemove(root, index),
	}
	return s.record(rec), nil
}

// ApplyAddBoardText appends a `gr_text` node (§4.F).
func ApplyAddBoardText(s *Session, text string, x, y float64, layer string, size, angle float64) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	n := sexp.NewList("gr_text", sexp.NewAtom(text),
		newAt(x, y, angle, angle != 0),
		sexp.NewList("layer", sexp.NewAtom(layer)),
		sexp.NewList("uuid", sexp.NewAtom(newUUID())),
		sexp.NewList("effects", sexp.NewList("font", sexp.NewList("size", sexp.NewAtom(formatNum(size)), sexp.NewAtom(formatNum(size))))),
	)
	root.Append(n)
	index := len(root.Children()) - 1
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "add_board_text",
		Description:    fmt.Sprintf("add board text %q on %s", text, layer),
		Target:         layer,
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(n),
		undo:           undoRemove(root, index),
	}
	return s.record(rec), nil
}
