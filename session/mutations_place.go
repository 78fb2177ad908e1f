package session

import (
	"crypto/rand"
	"fmt"

	"github.com/pkg/errors"

	"github.com/nicolagi/kicadcore/sexp"
)

// PlaceComponentPreview is the query_place_component result.
type PlaceComponentPreview struct {
	LibID           string
	Reference       string
	Value           string
	X, Y            float64
	Layer           string
	ResolvedFromLib bool
}

// QueryPlaceComponent previews a place_component call: whether the
// lib_id resolves to a library footprint or will fall back to a
// skeleton, without mutating the working copy.
func QueryPlaceComponent(s *Session, resolver *LibraryResolver, libID, ref, value string, x, y float64, layer string) (*PlaceComponentPreview, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	if fp, _ := findFootprintByRef(s.working.Root(), ref); fp != nil {
		return nil, errors.Wrapf(ErrDuplicateReference, "place_component: %q", ref)
	}
	resolved := false
	if resolver != nil {
		_, ok, err := resolver.Resolve(libID)
		if err != nil {
			return nil, err
		}
		resolved = ok
	}
	return &PlaceComponentPreview{
		LibID: libID, Reference: ref, Value: value, X: x, Y: y, Layer: layer,
		ResolvedFromLib: resolved,
	}, nil
}

// ApplyPlaceComponent resolves libID from resolver's search path; if
// found, it retargets the template footprint's at/layer/Reference/
// Value/uuid; otherwise it synthesizes a minimal skeleton footprint
// with just Reference and Value properties (§4.F). Rejects duplicate
// references.
func ApplyPlaceComponent(s *Session, resolver *LibraryResolver, libID, ref, value string, x, y float64, layer string) (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	root := s.working.Root()
	if fp, _ := findFootprintByRef(root, ref); fp != nil {
		return nil, errors.Wrapf(ErrDuplicateReference, "place_component: %q", ref)
	}
	fp := buildFootprint(resolver, libID, ref, value, x, y, 0, false, layer)
	root.Append(fp)
	index := len(root.Children()) - 1
	rec := &ChangeRecord{
		ID:             s.nextChangeID(),
		Operation:      "place_component",
		Description:    fmt.Sprintf("place %s (%s) at (%s, %s)", ref, libID, formatNum(x), formatNum(y)),
		Target:         ref,
		BeforeSnapshot: "",
		AfterSnapshot:  snapshot(fp),
		undo:           undoRemove(root, index),
	}
	return s.record(rec), nil
}

// buildFootprint resolves libID via resolver (if non-nil) and
// retargets the template; on any resolution miss it falls back to a
// minimal skeleton. A two-pad contract is not guaranteed for either
// path (§4.F).
func buildFootprint(resolver *LibraryResolver, libID, ref, value string, x, y, angle float64, hasAngle bool, layer string) *sexp.Node {
	var fp *sexp.Node
	if resolver != nil {
		if template, ok, err := resolver.Resolve(libID); err == nil && ok {
			fp, _ = template.Clone()
		}
	}
	if fp == nil {
		fp = skeletonFootprint(libID, ref, value, layer)
	}
	retargetFootprint(fp, libID, ref, value, x, y, angle, hasAngle, layer)
	return fp
}

func skeletonFootprint(libID, ref, value, layer string) *sexp.Node {
	fp := sexp.NewList("footprint", sexp.NewAtom(libID))
	fp.Append(sexp.NewList("layer", sexp.NewAtom(layer)))
	fp.Append(sexp.NewList("uuid", sexp.NewAtom(newUUID())))
	fp.Append(sexp.NewList("property", sexp.NewAtom("Reference"), sexp.NewAtom(ref)))
	fp.Append(sexp.NewList("property", sexp.NewAtom("Value"), sexp.NewAtom(value)))
	return fp
}

func retargetFootprint(fp *sexp.Node, libID, ref, value string, x, y, angle float64, hasAngle bool, layer string) {
	if len(fp.Children()) > 0 && fp.Children()[0].IsAtom() {
		fp.ReplaceChild(0, sexp.NewAtom(libID))
	} else {
		fp.InsertAt(0, sexp.NewAtom(libID))
	}
	if at := fp.FirstChild("at"); at != nil {
		idx := childIndex(fp, at)
		fp.ReplaceChild(idx, newAt(x, y, angle, hasAngle))
	} else {
		fp.Append(newAt(x, y, angle, hasAngle))
	}
	if l := fp.FirstChild("layer"); l != nil {
		l.ReplaceChild(0, sexp.NewAtom(layer))
	} else {
		fp.Append(sexp.NewList("layer", sexp.NewAtom(layer)))
	}
	if u := fp.FirstChild("uuid"); u != nil {
		u.ReplaceChild(0, sexp.NewAtom(newUUID()))
	} else {
		fp.Append(sexp.NewList("uuid", sexp.NewAtom(newUUID())))
	}
	if p := findPropertyByName(fp, "Reference"); p != nil {
		p.ReplaceChild(1, sexp.NewAtom(ref))
	} else {
		fp.Append(sexp.NewList("property", sexp.NewAtom("Reference"), sexp.NewAtom(ref)))
	}
	if p := findPropertyByName(fp, "Value"); p != nil {
		p.ReplaceChild(1, sexp.NewAtom(value))
	} else {
		fp.Append(sexp.NewList("property", sexp.NewAtom("Value"), sexp.NewAtom(value)))
	}
}

func newUUID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
