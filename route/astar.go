package route

import (
	"container/heap"
	"math"

	"github.com/pkg/errors"
)

// Node addresses one grid cell on one layer (§4.H).
type Node struct {
	Col, Row, Layer int
}

// Waypoint is a post-processed path point in both grid and board
// coordinates.
type Waypoint struct {
	Col, Row, Layer int
	X, Y            float64
}

// RouteResult is the outcome of one A* search, before or after it has
// been folded into a batch (§4.H, §4.I). TotalCost is the search cost
// of the raw, uncollapsed path (grid steps plus via costs);
// PostProcessedCost is the Euclidean length of the collapsed Path in
// board units and is indicative only.
type RouteResult struct {
	Path              []Waypoint
	TotalCost         float64
	PostProcessedCost float64
	Segments          int
	Vias              []Waypoint
}

// Options tunes one A* search (§4.H).
type Options struct {
	Diagonal      bool
	ViaCost       float64
	MaxIterations int
}

const sqrt2MinusOne = math.Sqrt2 - 1

func heuristic(n, goal Node, opts Options) float64 {
	dx := math.Abs(float64(goal.Col - n.Col))
	dy := math.Abs(float64(goal.Row - n.Row))
	var planar float64
	if opts.Diagonal {
		planar = math.Max(dx, dy) + sqrt2MinusOne*math.Min(dx, dy)
	} else {
		planar = dx + dy
	}
	if goal.Layer != n.Layer {
		planar += opts.ViaCost
	}
	return planar
}

type openEntry struct {
	node     Node
	f        float64
	inserted int
}

type openSet []*openEntry

func (h openSet) Len() int { return len(h) }
func (h openSet) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].inserted < h[j].inserted
}
func (h openSet) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openSet) Push(x any)        { *h = append(*h, x.(*openEntry)) }
func (h *openSet) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var planarMoves4 = []Node{{Col: 1}, {Col: -1}, {Row: 1}, {Row: -1}}
var planarMoves8 = append(append([]Node{}, planarMoves4...), Node{Col: 1, Row: 1}, Node{Col: 1, Row: -1}, Node{Col: -1, Row: 1}, Node{Col: -1, Row: -1})

func moveCost(dc, dr int) float64 {
	if dc != 0 && dr != 0 {
		return math.Sqrt2
	}
	return 1
}

// AStar finds the lowest-cost path from start to goal across grid,
// both already grid-snapped, subject to opts (§4.H). Reports ErrNoPath
// if the open set empties, start/goal is out of bounds or blocked, or
// the configured iteration ceiling is exceeded.
func AStar(grid *Grid, start, goal Node, opts Options) (*RouteResult, error) {
	if opts.ViaCost <= 0 {
		opts.ViaCost = 5.0
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 500000
	}
	if !grid.InBounds(start.Col, start.Row, start.Layer) || grid.Blocked(start.Col, start.Row, start.Layer) {
		return nil, errors.Wrap(ErrNoPath, "start cell out of bounds or blocked")
	}
	if !grid.InBounds(goal.Col, goal.Row, goal.Layer) || grid.Blocked(goal.Col, goal.Row, goal.Layer) {
		return nil, errors.Wrap(ErrNoPath, "goal cell out of bounds or blocked")
	}
	if start == goal {
		x, y := grid.ToCoord(start.Col, start.Row)
		wp := Waypoint{Col: start.Col, Row: start.Row, Layer: start.Layer, X: x, Y: y}
		return &RouteResult{Path: []Waypoint{wp}}, nil
	}

	gScore := map[Node]float64{start: 0}
	cameFrom := map[Node]Node{}
	closed := map[Node]bool{}

	oSet := &openSet{}
	heap.Init(oSet)
	counter := 0
	push := func(n Node, f float64) {
		heap.Push(oSet, &openEntry{node: n, f: f, inserted: counter})
		counter++
	}
	push(start, heuristic(start, goal, opts))

	planarMoves := planarMoves4
	if opts.Diagonal {
		planarMoves = planarMoves8
	}

	popped := 0
	for oSet.Len() > 0 {
		entry := heap.Pop(oSet).(*openEntry)
		current := entry.node
		if closed[current] {
			continue
		}
		closed[current] = true
		popped++
		if popped > opts.MaxIterations {
			return nil, errors.Wrapf(ErrNoPath, "iteration limit exceeded after %d popped nodes", popped)
		}
		if current == goal {
			return reconstruct(grid, cameFrom, start, goal, opts), nil
		}

		for _, move := range planarMoves {
			neighbor := Node{Col: current.Col + move.Col, Row: current.Row + move.Row, Layer: current.Layer}
			if !grid.InBounds(neighbor.Col, neighbor.Row, neighbor.Layer) || grid.Blocked(neighbor.Col, neighbor.Row, neighbor.Layer) {
				continue
			}
			tentative := gScore[current] + moveCost(move.Col, move.Row)
			if best, ok := gScore[neighbor]; !ok || tentative < best {
				gScore[neighbor] = tentative
				cameFrom[neighbor] = current
				push(neighbor, tentative+heuristic(neighbor, goal, opts))
			}
		}
		for layer := range grid.Layers {
			if layer == current.Layer {
				continue
			}
			neighbor := Node{Col: current.Col, Row: current.Row, Layer: layer}
			if !grid.InBounds(neighbor.Col, neighbor.Row, neighbor.Layer) || grid.Blocked(neighbor.Col, neighbor.Row, neighbor.Layer) {
				continue
			}
			tentative := gScore[current] + opts.ViaCost
			if best, ok := gScore[neighbor]; !ok || tentative < best {
				gScore[neighbor] = tentative
				cameFrom[neighbor] = current
				push(neighbor, tentative+heuristic(neighbor, goal, opts))
			}
		}
	}
	return nil, ErrNoPath
}

func reconstruct(grid *Grid, cameFrom map[Node]Node, start, goal Node, opts Options) *RouteResult {
	var nodes []Node
	n := goal
	for {
		nodes = append(nodes, n)
		if n == start {
			break
		}
		n = cameFrom[n]
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	raw := make([]Waypoint, len(nodes))
	totalCost := 0.0
	for i, node := range nodes {
		x, y := grid.ToCoord(node.Col, node.Row)
		raw[i] = Waypoint{Col: node.Col, Row: node.Row, Layer: node.Layer, X: x, Y: y}
		if i > 0 {
			prev := nodes[i-1]
			if prev.Layer != node.Layer {
				totalCost += opts.ViaCost
			} else {
				totalCost += moveCost(node.Col-prev.Col, node.Row-prev.Row)
			}
		}
	}

	path := collapseCollinear(raw)
	vias := detectVias(path)
	postCost := 0.0
	for i := 1; i < len(path); i++ {
		postCost += math.Hypot(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y)
	}
	segments := 0
	for i := 1; i < len(path); i++ {
		if path[i].Layer == path[i-1].Layer {
			segments++
		}
	}
	return &RouteResult{
		Path:              path,
		TotalCost:         totalCost,
		PostProcessedCost: postCost,
		Segments:          segments,
		Vias:              vias,
	}
}

// collapseCollinear removes intermediate waypoints whose neighbors
// share its layer and whose direction vectors are collinear within
// epsilon (§4.H "Post-processing" step 1). Endpoints are never removed.
func collapseCollinear(path []Waypoint) []Waypoint {
	const epsilon = 1e-9
	if len(path) < 3 {
		return append([]Waypoint{}, path...)
	}
	out := []Waypoint{path[0]}
	for i := 1; i < len(path)-1; i++ {
		prev := out[len(out)-1]
		cur := path[i]
		next := path[i+1]
		if prev.Layer == cur.Layer && cur.Layer == next.Layer {
			v1x, v1y := cur.X-prev.X, cur.Y-prev.Y
			v2x, v2y := next.X-cur.X, next.Y-cur.Y
			cross := v1x*v2y - v1y*v2x
			if math.Abs(cross) < epsilon {
				continue
			}
		}
		out = append(out, cur)
	}
	out = append(out, path[len(path)-1])
	return out
}

// detectVias scans consecutive waypoints for layer transitions at the
// same (x,y), recording a via at the earlier waypoint's layer (§4.H
// "Post-processing" step 2).
func detectVias(path []Waypoint) []Waypoint {
	var vias []Waypoint
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		if prev.Col == cur.Col && prev.Row == cur.Row && prev.Layer != cur.Layer {
			vias = append(vias, prev)
		}
	}
	return vias
}
