package board

import (
	"strconv"

	"github.com/nicolagi/kicadcore/sexp"
)

// parseFloat tolerantly parses a numeric atom, defaulting to 0.0 for
// anything malformed or absent (§4.D: "missing optional fields become
// defaults").
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// position reads a Position out of an `at` node's atom children:
// x, y, and an optional angle.
func position(at *sexp.Node) Position {
	if at == nil {
		return Position{}
	}
	values := at.AtomValues()
	p := Position{}
	if len(values) > 0 {
		p.X = parseFloat(values[0])
	}
	if len(values) > 1 {
		p.Y = parseFloat(values[1])
	}
	if len(values) > 2 {
		p.Angle = parseFloat(values[2])
		p.HasAngle = true
	}
	return p
}
