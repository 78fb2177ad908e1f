package session

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nicolagi/kicadcore/sexp"
)

// ApplyRouteTrace appends a `segment` node (§4.F).
func ApplyRouteTrace(s *Session, startX, startY, endX, endY, width float64, layer string, net int) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	seg := sexp.NewList("segment",
		newNamedPoint("start", startX, startY),
		newNamedPoint("end", endX, endY),
		sexp.NewList("width", sexp.NewAtom(formatNum(width))),
		sexp.NewList("layer", sexp.NewAtom(layer)),
		sexp.NewList("net", sexp.NewAtom(formatInt(net))),
		sexp.NewList("uuid", sexp.NewAtom(newUUID())),
	)
	root.Append(seg)
	index := len(root.Children()) - 1
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "route_trace",
		Description:    fmt.Sprintf("route trace on %s from (%s,%s) to (%s,%s)", layer, formatNum(startX), formatNum(startY), formatNum(endX), formatNum(endY)),
		Target:         layer,
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(seg),
		undo:           undoRemove(root, index),
	}
	return s.record(rec), nil
}

func newNamedPoint(name string, x, y float64) *sexp.Node {
	return sexp.NewList(name, sexp.NewAtom(formatNum(x)), sexp.NewAtom(formatNum(y)))
}

// ApplyAddVia appends a `via` node (§4.F).
func ApplyAddVia(s *Session, x, y float64, net int, size, drill float64, startLayer, endLayer string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	via := sexp.NewList("via",
		newAt(x, y, 0, false),
		sexp.NewList("size", sexp.NewAtom(formatNum(size))),
		sexp.NewList("drill", sexp.NewAtom(formatNum(drill))),
		sexp.NewList("layers", sexp.NewAtom(startLayer), sexp.NewAtom(endLayer)),
		sexp.NewList("net", sexp.NewAtom(formatInt(net))),
		sexp.NewList("uuid", sexp.NewAtom(newUUID())),
	)
	root.Append(via)
	index := len(root.Children()) - 1
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "add_via",
		Description:    fmt.Sprintf("add via at (%s,%s)", formatNum(x), formatNum(y)),
		Target:         fmt.Sprintf("(%s,%s)", formatNum(x), formatNum(y)),
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(via),
		undo:           undoRemove(root, index),
	}
	return s.record(rec), nil
}

// ApplyDeleteTrace removes the `segment` node with the given uuid
// (§4.F).
func ApplyDeleteTrace(s *Session, uuid string) (*ChangeRecord, error) {
	return deleteByUUID(s, "segment", "delete_trace", uuid)
}

// ApplyDeleteVia removes the `via` node with the given uuid (§4.F).
func ApplyDeleteVia(s *Session, uuid string) (*ChangeRecord, error) {
	return deleteByUUID(s, "via", "delete_via", uuid)
}

func deleteByUUID(s *Session, head, operation, uuid string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	n, index := findChildByUUID(root, head, uuid)
	if n == nil {
		return nil, errors.Wrapf(ErrNotFound, "%s: %q", operation, uuid)
	}
	before, err := n.Clone()
	if err != nil {
		return nil, err
	}
	root.RemoveAt(index)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      operation,
		Description:    fmt.Sprintf("%s %s", operation, uuid),
		Target:         uuid,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  "",
		undo:           undoInsert(root, index, before),
	}
	return s.record(rec), nil
}
