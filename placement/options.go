package placement

import "github.com/nicolagi/kicadcore/board"

// Options tunes the force-directed solver (§4.J).
type Options struct {
	MaxIterations        int
	MinClearanceMM       float64
	KAttract             float64
	KRepel               float64
	InitialTemperature   float64
	CoolingRate          float64
	ConvergenceThreshold float64
}

// DefaultOptions returns the tuning parameters used when the caller
// supplies none.
func DefaultOptions() Options {
	return Options{
		MaxIterations:        500,
		MinClearanceMM:       0.2,
		KAttract:             1.0,
		KRepel:               1.0,
		InitialTemperature:   5.0,
		CoolingRate:          0.95,
		ConvergenceThreshold: 0.01,
	}
}

// Movement records a component's position change.
type Movement struct {
	Reference  string
	FromX, FromY float64
	ToX, ToY     float64
}

// Result is the outcome of a Solve or Spread run.
type Result struct {
	Movements   []Movement
	HPWLBefore  float64
	HPWLAfter   float64
	ReductionPct float64
	Overlaps    int
	Iterations  int
	Converged   bool
}

// bbox returns a component's axis-aligned box at its current centre.
func (c *Component) bbox() board.BoundingBox {
	return board.BoundingBox{
		MinX: c.X - c.Width/2,
		MinY: c.Y - c.Height/2,
		MaxX: c.X + c.Width/2,
		MaxY: c.Y + c.Height/2,
	}
}

// paddedBBox returns the component's box expanded by half the minimum
// clearance on every side, used for overlap counting.
func (c *Component) paddedBBox(clearance float64) board.BoundingBox {
	return c.bbox().Expand(clearance / 2)
}

func boxesOverlap(a, b board.BoundingBox) bool {
	if a.MaxX <= b.MinX || b.MaxX <= a.MinX {
		return false
	}
	if a.MaxY <= b.MinY || b.MaxY <= a.MinY {
		return false
	}
	return true
}
