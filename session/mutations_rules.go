package session

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/nicolagi/kicadcore/sexp"
)

// designRuleAliases maps a small set of accepted alternate spellings
// onto the canonical design-rule keys set_design_rules accepts.
// Anything not reachable through this table or the canonical set
// itself — including min_track_width, min_via_diameter, min_via_drill,
// clearance, which belong in the board's design-rules file rather
// than the document tree — is rejected (§4.F).
var designRuleAliases = map[string]string{
	"mask_clearance":     "pad_to_mask_clearance",
	"solder_mask_margin": "pad_to_mask_clearance",
	"mask_min_width":     "solder_mask_min_width",
	"paste_clearance":    "pad_to_paste_clearance",
	"paste_ratio":        "pad_to_paste_clearance_ratio",
}

var designRuleCanonicalKeys = map[string]bool{
	"pad_to_mask_clearance":        true,
	"solder_mask_min_width":        true,
	"pad_to_paste_clearance":       true,
	"pad_to_paste_clearance_ratio": true,
}

func canonicalDesignRuleKey(key string) (string, bool) {
	if designRuleCanonicalKeys[key] {
		return key, true
	}
	if canonical, ok := designRuleAliases[key]; ok {
		return canonical, true
	}
	return "", false
}

// ApplySetDesignRules mutates children of the `setup` node. It
// pre-validates every key in rules before mutating any of them, so a
// single unknown key fails the entire call with no partial mutation
// (§4.F, §5 "Atomicity").
func ApplySetDesignRules(s *Session, rules map[string]string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	canonical := make(map[string]string, len(rules))
	for key, value := range rules {
		canonicalKey, ok := canonicalDesignRuleKey(key)
		if !ok {
			return nil, errors.Wrapf(ErrDesignRuleKey, "set_design_rules: %q", key)
		}
		canonical[canonicalKey] = value
	}

	root := s.working.Root()
	setup, setupIndex, created := ensureSetup(root)
	before, err := setup.Clone()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(canonical))
	for k := range canonical {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := canonical[key]
		if existing := setup.FirstChild(key); existing != nil {
			existing.ReplaceChild(0, sexp.NewAtom(value))
		} else {
			setup.Append(sexp.NewList(key, sexp.NewAtom(value)))
		}
	}

	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "set_design_rules",
		Description:    fmt.Sprintf("set %d design rule(s)", len(canonical)),
		Target:         "setup",
		BeforeSnapshot: snapshot(before),
		AfterSnapshot:  snapshot(setup),
		undo: func() error {
			if created {
				return undoRemove(root, setupIndex)()
			}
			return undoReplace(root, setupIndex, before)()
		},
	}
	return s.record(rec), nil
}

// ensureSetup returns the board's `setup` node, creating and
// appending an empty one if absent. created reports whether a new
// node was appended, so callers can undo by removal rather than
// replacement.
func ensureSetup(root *sexp.Node) (setup *sexp.Node, index int, created bool) {
	if setup = root.FirstChild("setup"); setup != nil {
		return setup, childIndex(root, setup), false
	}
	setup = sexp.NewList("setup")
	root.Append(setup)
	return setup, len(root.Children()) - 1, true
}

// ApplyAddNetClass appends a `net_class` node inside `setup` (or at
// the root if `setup` is absent) (§4.F).
func ApplyAddNetClass(s *Session, name string, clearance, traceWidth, viaDia, viaDrill float64, nets []string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	parent := root.FirstChild("setup")
	if parent == nil {
		parent = root
	}
	nc := sexp.NewList("net_class", sexp.NewAtom(name))
	nc.Append(sexp.NewList("clearance", sexp.NewAtom(formatNum(clearance))))
	nc.Append(sexp.NewList("trace_width", sexp.NewAtom(formatNum(traceWidth))))
	nc.Append(sexp.NewList("via_dia", sexp.NewAtom(formatNum(viaDia))))
	nc.Append(sexp.NewList("via_drill", sexp.NewAtom(formatNum(viaDrill))))
	for _, n := range nets {
		nc.Append(sexp.NewList("add_net", sexp.NewAtom(n)))
	}
	parent.Append(nc)
	index := len(parent.Children()) - 1
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "add_net_class",
		Description:    fmt.Sprintf("add net class %q", name),
		Target:         name,
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(nc),
		undo:           undoRemove(parent, index),
	}
	return s.record(rec), nil
}

// ApplySetLayerConstraints adds or updates a `layer_constraints` node
// inside `setup` for the given layer (§4.F).
func ApplySetLayerConstraints(s *Session, layer string, minWidth, minClearance *float64) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	setup, setupIndex, created := ensureSetup(root)
	setupBefore, err := setup.Clone()
	if err != nil {
		return nil, err
	}

	var target *sexp.Node
	for _, lc := range setup.ChildrenNamed("layer_constraints") {
		if v, ok := lc.AtomAt(0); ok && v == layer {
			target = lc
			break
		}
	}
	if target == nil {
		target = sexp.NewList("layer_constraints", sexp.NewAtom(layer))
		setup.Append(target)
	}
	if minWidth != nil {
		if existing := target.FirstChild("min_width"); existing != nil {
			existing.ReplaceChild(0, sexp.NewAtom(formatNum(*minWidth)))
		} else {
			target.Append(sexp.NewList("min_width", sexp.NewAtom(formatNum(*minWidth))))
		}
	}
	if minClearance != nil {
		if existing := target.FirstChild("min_clearance"); existing != nil {
			existing.ReplaceChild(0, sexp.NewAtom(formatNum(*minClearance)))
		} else {
			target.Append(sexp.NewList("min_clearance", sexp.NewAtom(formatNum(*minClearance))))
		}
	}

	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "set_layer_constraints",
		Description:    fmt.Sprintf("set layer constraints for %s", layer),
		Target:         layer,
		BeforeSnapshot: snapshot(setupBefore),
		AfterSnapshot:  snapshot(setup),
		undo: func() error {
			if created {
				return undoRemove(root, setupIndex)()
			}
			return undoReplace(root, setupIndex, setupBefore)()
		},
	}
	return s.record(rec), nil
}
