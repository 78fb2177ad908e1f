package board

import (
	"github.com/nicolagi/kicadcore/sexp"
)

// ExtractMeta reads the kicad_pcb > version/generator/general>thickness
// nodes (§6).
func ExtractMeta(root *sexp.Node) Meta {
	m := Meta{}
	if v := root.FirstChild("version"); v != nil {
		m.Version, _ = v.FirstAtomValue()
	}
	if g := root.FirstChild("generator"); g != nil {
		m.Generator, _ = g.FirstAtomValue()
	}
	if general := root.FirstChild("general"); general != nil {
		if thickness := general.FirstChild("thickness"); thickness != nil {
			if v, ok := thickness.FirstAtomValue(); ok {
				m.ThicknessMM = parseFloat(v)
			}
		}
	}
	return m
}

// ExtractLayers reads the kicad_pcb > layers block. Each child of
// layers is itself a list whose head is the numeric layer id and whose
// children are the name/type/alias atoms (§6).
func ExtractLayers(root *sexp.Node) []Layer {
	block := root.FirstChild("layers")
	if block == nil {
		return nil
	}
	var layers []Layer
	for _, child := range block.Children() {
		if !child.IsList() {
			continue
		}
		number := parseInt(child.Head())
		values := child.AtomValues()
		l := Layer{Number: number}
		if len(values) > 0 {
			l.Name = values[0]
		}
		if len(values) > 1 {
			switch values[1] {
			case string(LayerUser):
				l.Type = LayerUser
			default:
				l.Type = LayerSignal
			}
		} else {
			l.Type = LayerSignal
		}
		if len(values) > 2 {
			l.Alias = values[2]
		} else {
			l.Alias = ToUserFacingLayerName(l.Name)
		}
		layers = append(layers, l)
	}
	return layers
}

// ExtractNets reads every top-level (net N "name") declaration.
func ExtractNets(root *sexp.Node) []Net {
	var nets []Net
	for _, n := range root.ChildrenNamed("net") {
		values := n.AtomValues()
		net := Net{}
		if len(values) > 0 {
			net.Number = parseInt(values[0])
		}
		if len(values) > 1 {
			net.Name = values[1]
		}
		nets = append(nets, net)
	}
	return nets
}

func extractNetRef(n *sexp.Node) (number int, name string) {
	if n == nil {
		return 0, ""
	}
	values := n.AtomValues()
	if len(values) > 0 {
		number = parseInt(values[0])
	}
	if len(values) > 1 {
		name = values[1]
	}
	return number, name
}

// ExtractPad converts one `pad` node into a Pad value.
func ExtractPad(padNode *sexp.Node) Pad {
	p := Pad{}
	if v, ok := padNode.AtomAt(0); ok {
		p.Number = v
	}
	if v, ok := padNode.AtomAt(1); ok {
		p.Type = PadType(v)
	}
	if v, ok := padNode.AtomAt(2); ok {
		p.Shape = v
	}
	p.Position = position(padNode.FirstChild("at"))
	if size := padNode.FirstChild("size"); size != nil {
		values := size.AtomValues()
		if len(values) > 0 {
			p.Width = parseFloat(values[0])
		}
		if len(values) > 1 {
			p.Height = parseFloat(values[1])
		}
	}
	if layers := padNode.FirstChild("layers"); layers != nil {
		p.Layers = layers.AtomValues()
	}
	p.NetNumber, p.NetName = extractNetRef(padNode.FirstChild("net"))
	return p
}

func extractProperties(fpNode *sexp.Node) map[string]string {
	props := make(map[string]string)
	for _, p := range fpNode.ChildrenNamed("property") {
		values := p.AtomValues()
		if len(values) >= 2 {
			props[values[0]] = values[1]
		}
	}
	return props
}

// ExtractFootprints reads every `footprint` node at the board root.
func ExtractFootprints(root *sexp.Node) []Footprint {
	var footprints []Footprint
	for _, fpNode := range root.ChildrenNamed("footprint") {
		fp := Footprint{}
		fp.LibID, _ = fpNode.FirstAtomValue()
		if layer := fpNode.FirstChild("layer"); layer != nil {
			fp.Layer, _ = layer.FirstAtomValue()
		}
		if uuid := fpNode.FirstChild("uuid"); uuid != nil {
			fp.UUID, _ = uuid.FirstAtomValue()
		}
		fp.Position = position(fpNode.FirstChild("at"))
		props := extractProperties(fpNode)
		fp.Reference = props["Reference"]
		fp.Value = props["Value"]
		for _, padNode := range fpNode.ChildrenNamed("pad") {
			fp.Pads = append(fp.Pads, ExtractPad(padNode))
		}
		footprints = append(footprints, fp)
	}
	return footprints
}

// AbsolutePadPosition returns pad's centre in board coordinates,
// rotating its footprint-relative position by the footprint's angle
// (§3: "Positions are rotated by the parent footprint's angle when
// absolute coords are needed").
func AbsolutePadPosition(fp Footprint, pad Pad) Position {
	rx, ry := rotate(pad.Position.X, pad.Position.Y, fp.Position.Angle)
	return Position{X: fp.Position.X + rx, Y: fp.Position.Y + ry}
}

// ExtractSegments reads every `segment` node at the board root.
func ExtractSegments(root *sexp.Node) []Segment {
	var segments []Segment
	for _, n := range root.ChildrenNamed("segment") {
		s := Segment{}
		s.Start = position(n.FirstChild("start"))
		s.End = position(n.FirstChild("end"))
		if w := n.FirstChild("width"); w != nil {
			if v, ok := w.FirstAtomValue(); ok {
				s.Width = parseFloat(v)
			}
		}
		if l := n.FirstChild("layer"); l != nil {
			s.Layer, _ = l.FirstAtomValue()
		}
		if net := n.FirstChild("net"); net != nil {
			if v, ok := net.FirstAtomValue(); ok {
				s.Net = parseInt(v)
			}
		}
		if u := n.FirstChild("uuid"); u != nil {
			s.UUID, _ = u.FirstAtomValue()
		}
		segments = append(segments, s)
	}
	return segments
}

// ExtractVias reads every `via` node at the board root.
func ExtractVias(root *sexp.Node) []Via {
	var vias []Via
	for _, n := range root.ChildrenNamed("via") {
		v := Via{}
		v.Position = position(n.FirstChild("at"))
		if size := n.FirstChild("size"); size != nil {
			if val, ok := size.FirstAtomValue(); ok {
				v.Size = parseFloat(val)
			}
		}
		if drill := n.FirstChild("drill"); drill != nil {
			if val, ok := drill.FirstAtomValue(); ok {
				v.Drill = parseFloat(val)
			}
		}
		if layers := n.FirstChild("layers"); layers != nil {
			values := layers.AtomValues()
			if len(values) > 0 {
				v.StartLayer = values[0]
			}
			if len(values) > 1 {
				v.EndLayer = values[1]
			}
		}
		if net := n.FirstChild("net"); net != nil {
			if val, ok := net.FirstAtomValue(); ok {
				v.Net = parseInt(val)
			}
		}
		if u := n.FirstChild("uuid"); u != nil {
			v.UUID, _ = u.FirstAtomValue()
		}
		vias = append(vias, v)
	}
	return vias
}

// ExtractZones reads every `zone` node at the board root.
func ExtractZones(root *sexp.Node) []Zone {
	var zones []Zone
	for _, n := range root.ChildrenNamed("zone") {
		z := Zone{}
		if net := n.FirstChild("net"); net != nil {
			if v, ok := net.FirstAtomValue(); ok {
				z.Net = parseInt(v)
			}
		}
		if layer := n.FirstChild("layer"); layer != nil {
			z.Layer, _ = layer.FirstAtomValue()
		}
		if polygon := n.FirstChild("polygon"); polygon != nil {
			if pts := polygon.FirstChild("pts"); pts != nil {
				for _, xy := range pts.ChildrenNamed("xy") {
					values := xy.AtomValues()
					if len(values) >= 2 {
						z.Outline = append(z.Outline, Point{X: parseFloat(values[0]), Y: parseFloat(values[1])})
					}
				}
			}
		}
		if mt := n.FirstChild("min_thickness"); mt != nil {
			if v, ok := mt.FirstAtomValue(); ok {
				z.MinThickness = parseFloat(v)
			}
		}
		if pr := n.FirstChild("priority"); pr != nil {
			if v, ok := pr.FirstAtomValue(); ok {
				z.Priority = parseInt(v)
			}
		}
		zones = append(zones, z)
	}
	return zones
}

var boardOutlineShapes = []string{"gr_line", "gr_rect", "gr_arc", "gr_circle"}

// ExtractBoardOutline scans the root for graphic items on Edge.Cuts
// and returns the axis-aligned bounding box of every start/end/center
// point found on them (§4.D). The bool return is false if the board
// has no Edge.Cuts graphics at all.
func ExtractBoardOutline(root *sexp.Node) (BoundingBox, bool) {
	var points []Point
	for _, name := range boardOutlineShapes {
		for _, n := range root.ChildrenNamed(name) {
			layer := n.FirstChild("layer")
			if layer == nil {
				continue
			}
			if v, _ := layer.FirstAtomValue(); v != "Edge.Cuts" {
				continue
			}
			for _, ptName := range []string{"start", "end", "center"} {
				if pt := n.FirstChild(ptName); pt != nil {
					values := pt.AtomValues()
					if len(values) >= 2 {
						points = append(points, Point{X: parseFloat(values[0]), Y: parseFloat(values[1])})
					}
				}
			}
		}
	}
	if len(points) == 0 {
		return BoundingBox{}, false
	}
	bbox := BoundingBox{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < bbox.MinX {
			bbox.MinX = p.X
		}
		if p.Y < bbox.MinY {
			bbox.MinY = p.Y
		}
		if p.X > bbox.MaxX {
			bbox.MaxX = p.X
		}
		if p.Y > bbox.MaxY {
			bbox.MaxY = p.Y
		}
	}
	return bbox, true
}
