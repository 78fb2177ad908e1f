package session

import (
	"strconv"

	"github.com/nicolagi/kicadcore/sexp"
)

// formatNum renders a float64 the way newly synthesized nodes encode
// coordinates: the shortest decimal representation that round-trips,
// with no preserved lexeme (fresh nodes always re-quote from value,
// per sexp's serializer rule).
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

// newAt builds an `(at x y [angle])` node. angle is omitted when
// hasAngle is false, matching the optional third atom in §3's
// Position entity.
func newAt(x, y, angle float64, hasAngle bool) *sexp.Node {
	n := sexp.NewList("at", sexp.NewAtom(formatNum(x)), sexp.NewAtom(formatNum(y)))
	if hasAngle {
		n.Append(sexp.NewAtom(formatNum(angle)))
	}
	return n
}

func findFootprintByRef(root *sexp.Node, ref string) (fp *sexp.Node, index int) {
	for i, child := range root.Children() {
		if !child.IsList() || child.Head() != "footprint" {
			continue
		}
		for _, p := range child.ChildrenNamed("property") {
			values := p.AtomValues()
			if len(values) >= 2 && values[0] == "Reference" && values[1] == ref {
				return child, i
			}
		}
	}
	return nil, -1
}

func findPropertyByName(fp *sexp.Node, name string) *sexp.Node {
	for _, p := range fp.ChildrenNamed("property") {
		if v, ok := p.AtomAt(0); ok && v == name {
			return p
		}
	}
	return nil
}

func findPadByNumber(fp *sexp.Node, padNumber string) *sexp.Node {
	for _, p := range fp.ChildrenNamed("pad") {
		if v, ok := p.AtomAt(0); ok && v == padNumber {
			return p
		}
	}
	return nil
}

func findChildByUUID(root *sexp.Node, head, uuid string) (n *sexp.Node, index int) {
	for i, child := range root.Children() {
		if !child.IsList() || child.Head() != head {
			continue
		}
		if u := child.FirstChild("uuid"); u != nil {
			if v, _ := u.FirstAtomValue(); v == uuid {
				return child, i
			}
		}
	}
	return nil, -1
}

func cloneNode(n *sexp.Node) (*sexp.Node, error) {
	if n == nil {
		return nil, nil
	}
	return n.Clone()
}

func snapshot(n *sexp.Node) string {
	if n == nil {
		return ""
	}
	return sexp.Write(n)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// childIndex returns the index of child within parent's direct
// children, or -1 if child is not a direct child of parent.
func childIndex(parent, child *sexp.Node) int {
	for i, c := range parent.Children() {
		if c == child {
			return i
		}
	}
	return -1
}

// undoReplace restores parent's child at index to a fresh clone of
// before. Used when a mutation replaced or mutated an existing node
// in place.
//
// This only binds a safe parent/index pair when neither can change
// identity before the undo runs (e.g. the root itself, or a node
// whose own index is fixed once computed). For anything nested under
// a node a later, different mutation on the same target might
// wholesale-replace (a footprint, a pad), use undoReplaceResolved
// instead: binding the nested pointer directly leaves the undo
// closure mutating an orphaned node once that later replacement is
// itself undone first.
func undoReplace(parent *sexp.Node, index int, before *sexp.Node) func() error {
	return func() error {
		clone, err := before.Clone()
		if err != nil {
			return err
		}
		parent.ReplaceChild(index, clone)
		return nil
	}
}

// undoReplaceResolved restores a nested node to a fresh clone of
// before, re-resolving its parent and index from the live tree on
// every call via resolve rather than binding them at Apply time. This
// keeps undo correct across LIFO-unwinding a sequence of different
// mutations against the same component: if a later mutation replaces
// an ancestor node wholesale (flip/edit/replace_component clone and
// swap in the whole footprint) and that later change is undone first,
// resolve() still finds the live, current node instead of the one
// this closure was created against (§8 session-reversibility).
func undoReplaceResolved(resolve func() (parent *sexp.Node, index int, err error), before *sexp.Node) func() error {
	return func() error {
		parent, index, err := resolve()
		if err != nil {
			return err
		}
		clone, err := before.Clone()
		if err != nil {
			return err
		}
		parent.ReplaceChild(index, clone)
		return nil
	}
}

// undoRemoveResolved removes the node resolve() finds, re-resolving
// parent and index on every call for the same reason as
// undoReplaceResolved.
func undoRemoveResolved(resolve func() (parent *sexp.Node, index int, err error)) func() error {
	return func() error {
		parent, index, err := resolve()
		if err != nil {
			return err
		}
		parent.RemoveAt(index)
		return nil
	}
}

// undoRemove removes the node a mutation inserted at index.
func undoRemove(parent *sexp.Node, index int) func() error {
	return func() error {
		parent.RemoveAt(index)
		return nil
	}
}

// undoInsert reinserts a fresh clone of before at index, for a
// mutation that deleted a node from that position.
func undoInsert(parent *sexp.Node, index int, before *sexp.Node) func() error {
	return func() error {
		clone, err := before.Clone()
		if err != nil {
			return err
		}
		parent.InsertAt(index, clone)
		return nil
	}
}
