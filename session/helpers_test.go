package session_test

import (
	"strconv"
	"testing"

	"github.com/nicolagi/kicadcore/sexp"
)

// padWithLayers builds a `(pad ...)` node with an explicit `layers`
// child, for tests that exercise flip/net-assignment behavior without
// needing a full footprint fixture.
func padWithLayers(t *testing.T, number string, layers ...string) *sexp.Node {
	t.Helper()
	pad := sexp.NewList("pad", sexp.NewAtom(number), sexp.NewAtom("smd"), sexp.NewAtom("rect"))
	atoms := make([]*sexp.Node, len(layers))
	for i, l := range layers {
		atoms[i] = sexp.NewAtom(l)
	}
	pad.Append(sexp.NewList("layers", atoms...))
	return pad
}

// outlineEdge builds a `(gr_line ...)` node on Edge.Cuts between two
// points, for tests seeding a pre-existing board outline.
func outlineEdge(t *testing.T, startX, startY, endX, endY float64) *sexp.Node {
	t.Helper()
	fmtNum := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return sexp.NewList("gr_line",
		sexp.NewList("start", sexp.NewAtom(fmtNum(startX)), sexp.NewAtom(fmtNum(startY))),
		sexp.NewList("end", sexp.NewAtom(fmtNum(endX)), sexp.NewAtom(fmtNum(endY))),
		sexp.NewList("layer", sexp.NewAtom("Edge.Cuts")),
		sexp.NewList("width", sexp.NewAtom("0.05")),
	)
}
