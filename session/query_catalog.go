package session

import (
	"github.com/pkg/errors"
)

// Preview is the query_X result for catalog operations whose preview
// is simply their own validated arguments and the value they would
// replace, rather than a computed delta (§4.E "a preview dictionary").
// move_component, rotate_component, and place_component have richer,
// typed previews (MoveComponentPreview, RotateComponentPreview,
// PlaceComponentPreview) because their before-value isn't already one
// of the caller's own arguments.
type Preview struct {
	Operation string
	Target    string
	Fields    map[string]string
}

func QueryFlipComponent(s *Session, ref string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	fp, _ := findFootprintByRef(s.working.Root(), ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "flip_component: %q", ref)
	}
	layer := ""
	if l := fp.FirstChild("layer"); l != nil {
		layer, _ = l.FirstAtomValue()
	}
	return &Preview{Operation: "flip_component", Target: ref, Fields: map[string]string{"from_layer": layer}}, nil
}

func QueryDeleteComponent(s *Session, ref string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	fp, _ := findFootprintByRef(s.working.Root(), ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "delete_component: %q", ref)
	}
	return &Preview{Operation: "delete_component", Target: ref, Fields: map[string]string{}}, nil
}

func QueryEditComponent(s *Session, ref string, props map[string]string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	fp, _ := findFootprintByRef(s.working.Root(), ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "edit_component: %q", ref)
	}
	fields := make(map[string]string, len(props))
	for name := range props {
		if p := findPropertyByName(fp, name); p != nil {
			if v, ok := p.AtomAt(1); ok {
				fields["from_"+name] = v
			}
		}
	}
	return &Preview{Operation: "edit_component", Target: ref, Fields: fields}, nil
}

func QueryReplaceComponent(s *Session, ref, newLibID, newValue string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	fp, _ := findFootprintByRef(s.working.Root(), ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "replace_component: %q", ref)
	}
	fromLibID, _ := fp.FirstAtomValue()
	return &Preview{Operation: "replace_component", Target: ref, Fields: map[string]string{
		"from_lib_id": fromLibID, "to_lib_id": newLibID, "to_value": newValue,
	}}, nil
}

func QueryRouteTrace(s *Session, startX, startY, endX, endY, width float64, layer string, net int) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	return &Preview{Operation: "route_trace", Target: layer, Fields: map[string]string{
		"start": formatNum(startX) + "," + formatNum(startY),
		"end":   formatNum(endX) + "," + formatNum(endY),
		"width": formatNum(width),
		"net":   formatInt(net),
	}}, nil
}

func QueryAddVia(s *Session, x, y float64, net int, size, drill float64, startLayer, endLayer string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	return &Preview{Operation: "add_via", Target: startLayer + "-" + endLayer, Fields: map[string]string{
		"at": formatNum(x) + "," + formatNum(y), "net": formatInt(net),
	}}, nil
}

func QueryDeleteTrace(s *Session, uuid string) (*Preview, error) {
	return queryDeleteByUUID(s, "segment", "delete_trace", uuid)
}

func QueryDeleteVia(s *Session, uuid string) (*Preview, error) {
	return queryDeleteByUUID(s, "via", "delete_via", uuid)
}

func queryDeleteByUUID(s *Session, head, operation, uuid string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	n, _ := findChildByUUID(s.working.Root(), head, uuid)
	if n == nil {
		return nil, errors.Wrapf(ErrNotFound, "%s: %q", operation, uuid)
	}
	return &Preview{Operation: operation, Target: uuid, Fields: map[string]string{}}, nil
}

func QueryCreateNet(s *Session, name string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	for _, n := range s.working.Root().ChildrenNamed("net") {
		if v, ok := n.AtomAt(1); ok && v == name {
			return nil, errors.Wrapf(ErrDuplicateReference, "create_net: %q", name)
		}
	}
	return &Preview{Operation: "create_net", Target: name, Fields: map[string]string{}}, nil
}

func QueryDeleteNet(s *Session, name string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	for _, n := range s.working.Root().ChildrenNamed("net") {
		if v, ok := n.AtomAt(1); ok && v == name {
			return &Preview{Operation: "delete_net", Target: name, Fields: map[string]string{}}, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "delete_net: %q", name)
}

func QueryAssignNet(s *Session, ref, padNumber, netName string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	fp, _ := findFootprintByRef(root, ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "assign_net: %q", ref)
	}
	if findPadByNumber(fp, padNumber) == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "assign_net: %s pad %q", ref, padNumber)
	}
	exists := false
	for _, n := range root.ChildrenNamed("net") {
		if v, ok := n.AtomAt(1); ok && v == netName {
			exists = true
			break
		}
	}
	if !exists {
		return nil, errors.Wrapf(ErrNotFound, "assign_net: net %q", netName)
	}
	return &Preview{Operation: "assign_net", Target: ref + ":" + padNumber, Fields: map[string]string{"net": netName}}, nil
}

func QueryCreateZone(s *Session, net int, layer string, points [][2]float64) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, errors.Wrapf(ErrInvalidPolygon, "create_zone: %d points", len(points))
	}
	return &Preview{Operation: "create_zone", Target: layer, Fields: map[string]string{
		"net": formatInt(net), "points": formatInt(len(points)),
	}}, nil
}

func QuerySetBoardSize(s *Session, w, h float64) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	return &Preview{Operation: "set_board_size", Target: "Edge.Cuts", Fields: map[string]string{
		"width": formatNum(w), "height": formatNum(h),
	}}, nil
}

func QueryAddBoardOutline(s *Session, points [][2]float64) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	if len(points) < 3 {
		return nil, errors.Wrapf(ErrInvalidPolygon, "add_board_outline: %d points", len(points))
	}
	return &Preview{Operation: "add_board_outline", Target: "Edge.Cuts", Fields: map[string]string{
		"points": formatInt(len(points)),
	}}, nil
}

func QueryAddMountingHole(s *Session, x, y, drill, padDia float64) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	return &Preview{Operation: "add_mounting_hole", Target: formatNum(x) + "," + formatNum(y), Fields: map[string]string{
		"drill": formatNum(drill), "pad_diameter": formatNum(padDia),
	}}, nil
}

func QueryAddBoardText(s *Session, text string, x, y float64, layer string, size, angle float64) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	return &Preview{Operation: "add_board_text", Target: layer, Fields: map[string]string{
		"text": text, "at": formatNum(x) + "," + formatNum(y),
	}}, nil
}

func QuerySetDesignRules(s *Session, rules map[string]string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(rules))
	for key, value := range rules {
		canonicalKey, ok := canonicalDesignRuleKey(key)
		if !ok {
			return nil, errors.Wrapf(ErrDesignRuleKey, "set_design_rules: %q", key)
		}
		fields[canonicalKey] = value
	}
	return &Preview{Operation: "set_design_rules", Target: "setup", Fields: fields}, nil
}

func QueryAddNetClass(s *Session, name string) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	return &Preview{Operation: "add_net_class", Target: name, Fields: map[string]string{}}, nil
}

func QuerySetLayerConstraints(s *Session, layer string, minWidth, minClearance *float64) (*Preview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if minWidth != nil {
		fields["min_width"] = formatNum(*minWidth)
	}
	if minClearance != nil {
		fields["min_clearance"] = formatNum(*minClearance)
	}
	return &Preview{Operation: "set_layer_constraints", Target: layer, Fields: fields}, nil
}
