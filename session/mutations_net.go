package session

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nicolagi/kicadcore/sexp"
)

// ApplyCreateNet allocates the next unused positive net number and
// appends `(net N "name")` after the last existing net declaration
// (or after `layers` if there are none) (§4.F). Rejects duplicate
// names.
func ApplyCreateNet(s *Session, name string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	maxNumber := 0
	insertAfter := -1
	for i, child := range root.Children() {
		if child.IsList() && child.Head() == "net" {
			if v, ok := child.AtomAt(0); ok {
				if n := parseInt(v); n > maxNumber {
					maxNumber = n
				}
			}
			if v, ok := child.AtomAt(1); ok && v == name {
				return nil, errors.Wrapf(ErrDuplicateReference, "create_net: %q", name)
			}
			insertAfter = i
		}
	}
	if insertAfter == -1 {
		if layers := root.FirstChild("layers"); layers != nil {
			insertAfter = childIndex(root, layers)
		}
	}
	number := maxNumber + 1
	netNode := sexp.NewList("net", sexp.NewAtom(formatInt(number)), sexp.NewAtom(name))
	index := insertAfter + 1
	root.InsertAt(index, netNode)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "create_net",
		Description:    fmt.Sprintf("create net %d %q", number, name),
		Target:         name,
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(netNode),
		undo:           undoRemove(root, index),
	}
	return s.record(rec), nil
}

// ApplyDeleteNet removes the `(net …)` node whose name matches (§4.F).
func ApplyDeleteNet(s *Session, name string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	var target *sexp.Node
	index := -1
	for _, n := range root.ChildrenNamed("net") {
		if v, ok := n.AtomAt(1); ok && v == name {
			target = n
			index = childIndex(root, n)
			break
		}
	}
	if target == nil {
		return nil, errors.Wrapf(ErrNotFound, "delete_net: %q", name)
	}
	before, err := target.Clone()
	if err != nil {
		return nil, err
	}
	root.RemoveAt(index)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "delete_net",
		Description:    fmt.Sprintf("delete net %q", name),
		Target:         name,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  "",
		undo:           undoInsert(root, index, before),
	}
	return s.record(rec), nil
}

// ApplyAssignNet resolves netName to its declared number and replaces
// pad padNumber's `net` child on footprint ref with `(net N "name")`
// (§4.F).
func ApplyAssignNet(s *Session, ref, padNumber, netName string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	fp, _ := findFootprintByRef(root, ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "assign_net: %q", ref)
	}
	pad := findPadByNumber(fp, padNumber)
	if pad == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "assign_net: %s pad %q", ref, padNumber)
	}
	number := -1
	for _, n := range root.ChildrenNamed("net") {
		if v, ok := n.AtomAt(1); ok && v == netName {
			if nv, ok := n.AtomAt(0); ok {
				number = parseInt(nv)
			}
			break
		}
	}
	if number == -1 {
		return nil, errors.Wrapf(ErrNotFound, "assign_net: net %q", netName)
	}
	newNet := sexp.NewList("net", sexp.NewAtom(formatInt(number)), sexp.NewAtom(netName))
	if existing := pad.FirstChild("net"); existing != nil {
		before, err := existing.Clone()
		if err != nil {
			return nil, err
		}
		pad.ReplaceChild(childIndex(pad, existing), newNet)
		rec := &ChangeRecord{
			ID:             s.nextChangeID(),
			Operation:      "assign_net",
			Description:    fmt.Sprintf("assign %s pad %s to net %q", ref, padNumber, netName),
			Target:         fmt.Sprintf("%s:%s", ref, padNumber),
			BeforeSnapshot: snapshot(before),
			AfterSnapshot:  snapshot(newNet),
			undo:           undoReplaceResolved(resolvePadNetChild(s, ref, padNumber), before),
		}
		return s.record(rec), nil
	}
	pad.Append(newNet)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "assign_net",
		Description:    fmt.Sprintf("assign %s pad %s to net %q", ref, padNumber, netName),
		Target:         fmt.Sprintf("%s:%s", ref, padNumber),
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(newNet),
		undo:           undoRemoveResolved(resolvePadNetChild(s, ref, padNumber)),
	}
	return s.record(rec), nil
}

// resolvePadNetChild returns a resolve function for
// undoReplaceResolved/undoRemoveResolved that re-finds ref's
// footprint, its pad, and the pad's `net` child from the live tree on
// every call, instead of the pad pointer captured at Apply time (which
// a later flip/edit/replace on the same ref can orphan if undone
// first; §8 session-reversibility).
func resolvePadNetChild(s *Session, ref, padNumber string) func() (*sexp.Node, int, error) {
	return func() (*sexp.Node, int, error) {
		fp, _ := findFootprintByRef(s.working.Root(), ref)
		if fp == nil {
			return nil, 0, errors.Wrapf(ErrReferenceNotFound, "undo assign_net: %q", ref)
		}
		pad := findPadByNumber(fp, padNumber)
		if pad == nil {
			return nil, 0, errors.Wrapf(ErrReferenceNotFound, "undo assign_net: %s pad %q", ref, padNumber)
		}
		net := pad.FirstChild("net")
		if net == nil {
			return nil, 0, errors.Wrapf(ErrReferenceNotFound, "undo assign_net: %s pad %s has no net", ref, padNumber)
		}
		return pad, childIndex(pad, net), nil
	}
}
