package route

import (
	"context"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var logger = log.WithField("component", "route")

// PadPosition is one terminal of a net to route: an absolute board
// coordinate plus the reference/pad-number it belongs to, for
// diagnostics (§4.I).
type PadPosition struct {
	X, Y      float64
	Reference string
	PadNumber string
}

// NetToRoute is one unrouted net: its net number and the pads that
// must end up connected.
type NetToRoute struct {
	Number int
	Pads   []PadPosition
}

// NetRouteResult is the batch outcome for a single net: either every
// MST edge routed, or the first edge that failed. Edges holds the
// RouteResults for edges routed before a failure, if any.
type NetRouteResult struct {
	Net    int
	Routed bool
	Edges  []*RouteResult
	Err    error
}

// BatchResult is the outcome of routing every net in a NetToRoute list
// (§4.I).
type BatchResult struct {
	Routed        int
	Failed        int
	Results       []NetRouteResult
	TotalSegments int
	TotalVias     int
}

// BatchOptions tunes the batch router. PreferredLayer, if set, is used
// for every edge; otherwise the grid's first layer is used. MaxNets,
// if positive, truncates the ordered net list (§4.I step 2).
type BatchOptions struct {
	Options
	PreferredLayer string
	MaxNets        int
}

// RouteBatch orders nets by shortest pad-pair distance (easiest first),
// then routes each net's minimum spanning tree in order, rasterizing
// every successfully routed edge into grid before moving to the next
// net so later nets see earlier nets' copper as obstacles (§4.I).
func RouteBatch(grid *Grid, nets []NetToRoute, opts BatchOptions) (*BatchResult, error) {
	ordered, err := orderByShortestPadPairDistance(nets)
	if err != nil {
		return nil, err
	}
	if opts.MaxNets > 0 && len(ordered) > opts.MaxNets {
		logger.WithField("dropped", len(ordered)-opts.MaxNets).Info("batch router truncating net list")
		ordered = ordered[:opts.MaxNets]
	}

	layerIndex := 0
	if opts.PreferredLayer != "" {
		if idx, ok := grid.LayerIndex(opts.PreferredLayer); ok {
			layerIndex = idx
		}
	}

	result := &BatchResult{}
	for _, net := range ordered {
		netLogger := logger.WithField("net", net.Number).WithField("pads", len(net.Pads))
		grid.ClearNet(net.Number)
		netResult := NetRouteResult{Net: net.Number}

		if len(net.Pads) < 2 {
			netResult.Routed = true
			result.Results = append(result.Results, netResult)
			result.Routed++
			netLogger.Debug("net has fewer than two pads, nothing to route")
			continue
		}

		edges := primMST(net.Pads)
		failed := false
		for _, edge := range edges {
			a, b := net.Pads[edge.i], net.Pads[edge.j]
			startCol, startRow := grid.ToCell(a.X, a.Y)
			endCol, endRow := grid.ToCell(b.X, b.Y)
			edgeResult, err := AStar(grid, Node{Col: startCol, Row: startRow, Layer: layerIndex}, Node{Col: endCol, Row: endRow, Layer: layerIndex}, opts.Options)
			if err != nil {
				netResult.Err = err
				failed = true
				netLogger.WithField("error", err).Warn("net failed to route")
				break
			}
			netResult.Edges = append(netResult.Edges, edgeResult)
			for i := 1; i < len(edgeResult.Path); i++ {
				prev, cur := edgeResult.Path[i-1], edgeResult.Path[i]
				if prev.Layer == cur.Layer {
					grid.blockLine(prev.X, prev.Y, cur.X, cur.Y, prev.Layer, net.Number)
				}
			}
			result.TotalSegments += edgeResult.Segments
			result.TotalVias += len(edgeResult.Vias)
		}

		if failed {
			result.Failed++
		} else {
			netResult.Routed = true
			result.Routed++
			netLogger.Debug("net routed")
		}
		result.Results = append(result.Results, netResult)
	}
	return result, nil
}

// shortestPadPairDistance returns the minimum Euclidean distance across
// all pad pairs in net, or +Inf if net has fewer than two pads.
func shortestPadPairDistance(net NetToRoute) float64 {
	best := math.Inf(1)
	for i := 0; i < len(net.Pads); i++ {
		for j := i + 1; j < len(net.Pads); j++ {
			d := math.Hypot(net.Pads[i].X-net.Pads[j].X, net.Pads[i].Y-net.Pads[j].Y)
			if d < best {
				best = d
			}
		}
	}
	return best
}

// orderByShortestPadPairDistance ranks nets ascending by their shortest
// pad-pair distance (§4.I step 1), computing each net's distance
// concurrently since the O(n²) pairwise scan is independent per net.
func orderByShortestPadPairDistance(nets []NetToRoute) ([]NetToRoute, error) {
	type scored struct {
		net      NetToRoute
		distance float64
	}
	scoredNets := make([]scored, len(nets))
	g, _ := errgroup.WithContext(context.Background())
	for i := range nets {
		i := i
		g.Go(func() error {
			scoredNets[i] = scored{net: nets[i], distance: shortestPadPairDistance(nets[i])}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(scoredNets, func(i, j int) bool {
		return scoredNets[i].distance < scoredNets[j].distance
	})
	ordered := make([]NetToRoute, len(scoredNets))
	for i, s := range scoredNets {
		ordered[i] = s.net
	}
	return ordered, nil
}
