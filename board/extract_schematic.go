package board

import "github.com/nicolagi/kicadcore/sexp"

// ExtractSymbols reads every schematic component instance at the
// kicad_sch root. Instances are distinguished from library-symbol
// definitions (nested inside the `lib_symbols` block) two ways: they
// are direct children of the root, and they carry a `lib_id` child —
// library-symbol definitions name themselves via their own head atom
// instead (§4.D).
func ExtractSymbols(root *sexp.Node) []Symbol {
	var symbols []Symbol
	for _, n := range root.ChildrenNamed("symbol") {
		libID := n.FirstChild("lib_id")
		if libID == nil {
			continue
		}
		s := Symbol{}
		s.LibID, _ = libID.FirstAtomValue()
		s.Position = position(n.FirstChild("at"))
		if unit := n.FirstChild("unit"); unit != nil {
			if v, ok := unit.FirstAtomValue(); ok {
				s.Unit = parseInt(v)
			}
		}
		if uuid := n.FirstChild("uuid"); uuid != nil {
			s.UUID, _ = uuid.FirstAtomValue()
		}
		if inBOM := n.FirstChild("in_bom"); inBOM != nil {
			v, _ := inBOM.FirstAtomValue()
			s.InBOM = v == "yes"
		}
		if onBoard := n.FirstChild("on_board"); onBoard != nil {
			v, _ := onBoard.FirstAtomValue()
			s.OnBoard = v == "yes"
		}
		s.Properties = extractProperties(n)
		s.Reference = s.Properties["Reference"]
		s.Value = s.Properties["Value"]
		for _, pinNode := range n.ChildrenNamed("pin") {
			values := pinNode.AtomValues()
			pin := Pin{}
			if len(values) > 0 {
				pin.Number = values[0]
			}
			if len(values) > 1 {
				pin.Name = values[1]
			}
			pin.Position = position(pinNode.FirstChild("at"))
			s.Pins = append(s.Pins, pin)
		}
		symbols = append(symbols, s)
	}
	return symbols
}
