package placement

import (
	"math"

	"github.com/nicolagi/kicadcore/board"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("component", "placement")

// tieBreakEpsilon is the distance below which two components are
// considered coincident and nudged apart deterministically (§4.J
// step 3).
const tieBreakEpsilon = 0.01

// Solve runs the force-directed, simulated-annealing iteration loop
// (§4.J): attractive forces along shared-net edges pull components
// together, repulsive forces keep unlocked components from
// overlapping, and a cooling temperature bounds per-iteration
// displacement until convergence or max_iterations is reached.
func Solve(components []*Component, edges []Edge, netMembership map[int][]string, bbox board.BoundingBox, opts Options) *Result {
	return run(components, edges, netMembership, bbox, opts)
}

// Spread runs the same loop with k_attract forced to zero: repulsive
// forces only, for resolving overlaps without re-optimizing
// wirelength (§4.J "Spread-only mode").
func Spread(components []*Component, netMembership map[int][]string, bbox board.BoundingBox, opts Options) *Result {
	opts.KAttract = 0
	return run(components, nil, netMembership, bbox, opts)
}

func run(components []*Component, edges []Edge, netMembership map[int][]string, bbox board.BoundingBox, opts Options) *Result {
	byRef := make(map[string]*Component, len(components))
	before := make(map[string]board.Point, len(components))
	for _, c := range components {
		byRef[c.Reference] = c
		before[c.Reference] = board.Point{X: c.X, Y: c.Y}
	}

	hpwlBefore := HPWL(byRef, netMembership)
	clearance := opts.MinClearanceMM
	repelRadius := 3 * (clearance + 1)
	temperature := opts.InitialTemperature

	result := &Result{HPWLBefore: hpwlBefore}

	iterations := 0
	for ; iterations < opts.MaxIterations; iterations++ {
		fx := make(map[string]float64, len(components))
		fy := make(map[string]float64, len(components))
		for _, c := range components {
			if !c.Locked {
				fx[c.Reference] = 0
				fy[c.Reference] = 0
			}
		}

		for _, e := range edges {
			a, ok1 := byRef[e.A]
			b, ok2 := byRef[e.B]
			if !ok1 || !ok2 || e.Weight == 0 || opts.KAttract == 0 {
				continue
			}
			dx, dy := b.X-a.X, b.Y-a.Y
			d := math.Hypot(dx, dy)
			if d == 0 {
				continue
			}
			ux, uy := dx/d, dy/d
			mag := opts.KAttract * float64(e.Weight) * d
			if !a.Locked {
				fx[a.Reference] += mag * ux
				fy[a.Reference] += mag * uy
			}
			if !b.Locked {
				fx[b.Reference] -= mag * ux
				fy[b.Reference] -= mag * uy
			}
		}

		for i := 0; i < len(components); i++ {
			a := components[i]
			for j := i + 1; j < len(components); j++ {
				b := components[j]
				if a.Locked && b.Locked {
					continue
				}
				dx, dy := b.X-a.X, b.Y-a.Y
				d := math.Hypot(dx, dy)
				if d >= repelRadius {
					continue
				}
				var ux, uy float64
				if d < tieBreakEpsilon {
					angle := float64(i*37+j*53) * (math.Pi / 180)
					ux, uy = math.Cos(angle), math.Sin(angle)
					d = tieBreakEpsilon
				} else {
					ux, uy = dx/d, dy/d
				}
				mag := opts.KRepel / (d * d)
				if !a.Locked {
					fx[a.Reference] -= mag * ux
					fy[a.Reference] -= mag * uy
				}
				if !b.Locked {
					fx[b.Reference] += mag * ux
					fy[b.Reference] += mag * uy
				}
			}
		}

		maxDisplacement := 0.0
		for _, c := range components {
			if c.Locked {
				continue
			}
			f := math.Hypot(fx[c.Reference], fy[c.Reference])
			dx, dy := fx[c.Reference], fy[c.Reference]
			if f > temperature && f > 0 {
				scale := temperature / f
				dx *= scale
				dy *= scale
			}

			c.X += dx
			c.Y += dy

			minCX, maxCX := bbox.MinX+c.Width/2, bbox.MaxX-c.Width/2
			minCY, maxCY := bbox.MinY+c.Height/2, bbox.MaxY-c.Height/2
			if minCX <= maxCX {
				c.X = clampFloat(c.X, minCX, maxCX)
			}
			if minCY <= maxCY {
				c.Y = clampFloat(c.Y, minCY, maxCY)
			}

			delta := math.Hypot(dx, dy)
			if delta > maxDisplacement {
				maxDisplacement = delta
			}
		}

		temperature *= opts.CoolingRate

		if maxDisplacement < opts.ConvergenceThreshold {
			result.Converged = true
			iterations++
			break
		}
	}
	result.Iterations = iterations

	for _, c := range components {
		start := before[c.Reference]
		if start.X != c.X || start.Y != c.Y {
			result.Movements = append(result.Movements, Movement{
				Reference: c.Reference,
				FromX:     start.X,
				FromY:     start.Y,
				ToX:       c.X,
				ToY:       c.Y,
			})
		}
	}

	result.HPWLAfter = HPWL(byRef, netMembership)
	if hpwlBefore > 0 {
		result.ReductionPct = (hpwlBefore - result.HPWLAfter) / hpwlBefore * 100
	}
	result.Overlaps = countOverlaps(components, clearance)

	logger.WithField("iterations", result.Iterations).
		WithField("converged", result.Converged).
		WithField("hpwl_before", result.HPWLBefore).
		WithField("hpwl_after", result.HPWLAfter).
		Debug("placement solve finished")

	return result
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
