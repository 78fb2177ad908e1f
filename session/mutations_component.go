package session

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nicolagi/kicadcore/board"
	"github.com/nicolagi/kicadcore/sexp"
)

// MoveComponentPreview is the query_move_component result.
type MoveComponentPreview struct {
	Reference    string
	FromX, FromY float64
	ToX, ToY     float64
}

// QueryMoveComponent previews a move_component call without touching
// the working copy.
func QueryMoveComponent(s *Session, ref string, x, y float64) (*MoveComponentPreview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	fp, at, err := resolveComponentAt(s.working.Root(), ref)
	if err != nil {
		return nil, err
	}
	_ = fp
	fromX, fromY := atXY(at)
	return &MoveComponentPreview{Reference: ref, FromX: fromX, FromY: fromY, ToX: x, ToY: y}, nil
}

// ApplyMoveComponent replaces the first two atom children of ref's
// `at` node with (x, y) (§4.F).
func ApplyMoveComponent(s *Session, ref string, x, y float64) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	_, at, err := resolveComponentAt(s.working.Root(), ref)
	if err != nil {
		return nil, err
	}
	before, err := at.Clone()
	if err != nil {
		return nil, err
	}
	at.ReplaceChild(0, sexp.NewAtom(formatNum(x)))
	at.ReplaceChild(1, sexp.NewAtom(formatNum(y)))
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "move_component",
		Description:    fmt.Sprintf("move %s to (%s, %s)", ref, formatNum(x), formatNum(y)),
		Target:         ref,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  snapshot(at),
		undo:           undoReplaceResolved(resolveComponentAtChild(s, ref), before),
	}
	return s.record(rec), nil
}

// RotateComponentPreview is the query_rotate_component result.
type RotateComponentPreview struct {
	Reference          string
	FromAngle, ToAngle float64
}

func QueryRotateComponent(s *Session, ref string, angle float64) (*RotateComponentPreview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	_, at, err := resolveComponentAt(s.working.Root(), ref)
	if err != nil {
		return nil, err
	}
	from := 0.0
	if v, ok := at.AtomAt(2); ok {
		from = parseFloat(v)
	}
	return &RotateComponentPreview{Reference: ref, FromAngle: from, ToAngle: angle}, nil
}

// ApplyRotateComponent sets or appends the third atom child of ref's
// `at` node to angle, in degrees (§4.F).
func ApplyRotateComponent(s *Session, ref string, angle float64) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	_, at, err := resolveComponentAt(s.working.Root(), ref)
	if err != nil {
		return nil, err
	}
	before, err := at.Clone()
	if err != nil {
		return nil, err
	}
	if _, ok := at.AtomAt(2); ok {
		at.ReplaceChild(2, sexp.NewAtom(formatNum(angle)))
	} else {
		at.Append(sexp.NewAtom(formatNum(angle)))
	}
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "rotate_component",
		Description:    fmt.Sprintf("rotate %s to %s degrees", ref, formatNum(angle)),
		Target:         ref,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  snapshot(at),
		undo:           undoReplaceResolved(resolveComponentAtChild(s, ref), before),
	}
	return s.record(rec), nil
}

// ApplyFlipComponent applies the layer-flip mapping (§6) to the
// footprint's own layer, every pad's layers (wildcards preserved),
// and the layer of every graphic item and property (§4.F).
func ApplyFlipComponent(s *Session, ref string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	fp, fpIndex := findFootprintByRef(root, ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "flip_component: %q", ref)
	}
	before, err := fp.Clone()
	if err != nil {
		return nil, err
	}
	flipLayersRecursive(fp)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "flip_component",
		Description:    fmt.Sprintf("flip %s", ref),
		Target:         ref,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  snapshot(fp),
		undo:           undoReplace(root, fpIndex, before),
	}
	return s.record(rec), nil
}

func flipLayersRecursive(n *sexp.Node) {
	if !n.IsList() {
		return
	}
	switch n.Head() {
	case "layer":
		if v, ok := n.AtomAt(0); ok {
			n.ReplaceChild(0, sexp.NewAtom(board.FlipLayerName(v)))
		}
	case "layers":
		for i, v := range n.AtomValues() {
			if len(v) > 0 && v[0] != '*' {
				n.ReplaceChild(i, sexp.NewAtom(board.FlipLayerName(v)))
			}
		}
	}
	for _, c := range n.Children() {
		flipLayersRecursive(c)
	}
}

// ApplyDeleteComponent removes ref's footprint node from the board
// root (§4.F).
func ApplyDeleteComponent(s *Session, ref string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	fp, fpIndex := findFootprintByRef(root, ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "delete_component: %q", ref)
	}
	before, err := fp.Clone()
	if err != nil {
		return nil, err
	}
	root.RemoveAt(fpIndex)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "delete_component",
		Description:    fmt.Sprintf("delete %s", ref),
		Target:         ref,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  "",
		undo:           undoInsert(root, fpIndex, before),
	}
	return s.record(rec), nil
}

// ApplyEditComponent updates or appends `property` children of ref's
// footprint for every (name, value) pair in props (§4.F). Appended
// properties are marked hidden, matching KiCad's convention for
// properties synthesized rather than drawn on the silkscreen.
func ApplyEditComponent(s *Session, ref string, props map[string]string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	fp, fpIndex := findFootprintByRef(root, ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "edit_component: %q", ref)
	}
	before, err := fp.Clone()
	if err != nil {
		return nil, err
	}
	for name, value := range props {
		if p := findPropertyByName(fp, name); p != nil {
			p.ReplaceChild(1, sexp.NewAtom(value))
		} else {
			fp.Append(newHiddenProperty(name, value))
		}
	}
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "edit_component",
		Description:    fmt.Sprintf("edit %s properties", ref),
		Target:         ref,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  snapshot(fp),
		undo:           undoReplace(root, fpIndex, before),
	}
	return s.record(rec), nil
}

func newHiddenProperty(name, value string) *sexp.Node {
	p := sexp.NewList("property", sexp.NewAtom(name), sexp.NewAtom(value))
	p.Append(sexp.NewList("hide", sexp.NewAtom("yes")))
	return p
}

// ApplyReplaceComponent is an atomic delete+place that preserves
// position, layer, and reference (§4.F).
func ApplyReplaceComponent(s *Session, resolver *LibraryResolver, ref, newLibID, newValue string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	fp, fpIndex := findFootprintByRef(root, ref)
	if fp == nil {
		return nil, errors.Wrapf(ErrReferenceNotFound, "replace_component: %q", ref)
	}
	before, err := fp.Clone()
	if err != nil {
		return nil, err
	}
	x, y := atXY(fp.FirstChild("at"))
	angle := 0.0
	hasAngle := false
	if v, ok := fp.FirstChild("at").AtomAt(2); ok {
		angle = parseFloat(v)
		hasAngle = true
	}
	layer := ""
	if l := fp.FirstChild("layer"); l != nil {
		layer, _ = l.FirstAtomValue()
	}
	replacement := buildFootprint(resolver, newLibID, ref, newValue, x, y, angle, hasAngle, layer)
	root.ReplaceChild(fpIndex, replacement)
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "replace_component",
		Description:    fmt.Sprintf("replace %s with %s", ref, newLibID),
		Target:         ref,
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  snapshot(replacement),
		undo:           undoReplace(root, fpIndex, before),
	}
	return s.record(rec), nil
}

func resolveComponentAt(root *sexp.Node, ref string) (fp, at *sexp.Node, err error) {
	fp, _ = findFootprintByRef(root, ref)
	if fp == nil {
		return nil, nil, errors.Wrapf(ErrReferenceNotFound, "component %q", ref)
	}
	at = fp.FirstChild("at")
	if at == nil {
		return nil, nil, errors.Wrapf(ErrReferenceNotFound, "component %q has no at node", ref)
	}
	return fp, at, nil
}

// resolveComponentAtChild returns a resolve function for
// undoReplaceResolved that re-finds ref's footprint and its `at` child
// from the live tree on every call, rather than the footprint/at
// pointers captured at Apply time (which a later flip/edit/replace on
// the same ref can orphan if undone first; §8 session-reversibility).
func resolveComponentAtChild(s *Session, ref string) func() (*sexp.Node, int, error) {
	return func() (*sexp.Node, int, error) {
		fp, at, err := resolveComponentAt(s.working.Root(), ref)
		if err != nil {
			return nil, 0, err
		}
		return fp, childIndex(fp, at), nil
	}
}

func atXY(at *sexp.Node) (x, y float64) {
	if v, ok := at.AtomAt(0); ok {
		x = parseFloat(v)
	}
	if v, ok := at.AtomAt(1); ok {
		y = parseFloat(v)
	}
	return x, y
}
