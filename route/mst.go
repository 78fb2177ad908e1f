package route

import "math"

// mstEdge is one spanning-tree edge as a pad-index pair (§4.I step 2).
type mstEdge struct {
	i, j int
}

// primMST computes a minimum spanning tree over pads using Prim's
// algorithm with Euclidean edge weights, all-pairs implicit (O(n²))
// (§4.I step 2).
func primMST(pads []PadPosition) []mstEdge {
	n := len(pads)
	if n < 2 {
		return nil
	}
	inTree := make([]bool, n)
	minDist := make([]float64, n)
	nearest := make([]int, n)
	for i := range minDist {
		minDist[i] = math.Inf(1)
		nearest[i] = -1
	}
	inTree[0] = true
	for i := 1; i < n; i++ {
		minDist[i] = math.Hypot(pads[0].X-pads[i].X, pads[0].Y-pads[i].Y)
		nearest[i] = 0
	}

	var edges []mstEdge
	for added := 1; added < n; added++ {
		next := -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !inTree[i] && minDist[i] < best {
				best = minDist[i]
				next = i
			}
		}
		if next == -1 {
			break
		}
		inTree[next] = true
		edges = append(edges, mstEdge{i: nearest[next], j: next})
		for i := 0; i < n; i++ {
			if inTree[i] {
				continue
			}
			d := math.Hypot(pads[next].X-pads[i].X, pads[next].Y-pads[i].Y)
			if d < minDist[i] {
				minDist[i] = d
				nearest[i] = next
			}
		}
	}
	return edges
}
