package session

import (
	"github.com/nicolagi/kicadcore/diff"
)

// ChangeRecord describes one applied mutation: its operation name, a
// human-readable description, the target it affected, before/after
// serialized snapshots of the affected subtree, and whether it is
// currently applied (undo flips this to false without removing the
// record, per spec.md §3 invariant 6).
type ChangeRecord struct {
	ID             string
	Operation      string
	Description    string
	Target         string
	BeforeSnapshot string
	AfterSnapshot  string
	Applied        bool

	// undo restores the working tree to the state it had before this
	// record was applied. It is a closure built by the mutation rather
	// than a location re-derived from Target, since not every
	// mutation's target is a single child replacement (some insert,
	// some delete, some touch several nodes at once). Most closures
	// hold the parent/index captured at apply time; move, rotate and
	// assign_net re-find their node in the live tree by reference when
	// undo runs.
	undo func() error
}

// Describe renders a unified diff between the before and after
// snapshots, for display to a caller inspecting session history.
func (c *ChangeRecord) Describe() (string, error) {
	return diff.Unified(diff.StringNode(c.BeforeSnapshot), diff.StringNode(c.AfterSnapshot), 3)
}
