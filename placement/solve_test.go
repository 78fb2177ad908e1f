package placement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolagi/kicadcore/board"
	"github.com/nicolagi/kicadcore/placement"
)

func TestSolveReducesHPWLAndStaysInBounds(t *testing.T) {
	components := []*placement.Component{
		{Reference: "C1", X: 10, Y: 10, Width: 1, Height: 1},
		{Reference: "C2", X: 90, Y: 90, Width: 1, Height: 1},
	}
	edges := []placement.Edge{{A: "C1", B: "C2", Weight: 1}}
	members := map[int][]string{1: {"C1", "C2"}}
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	opts := placement.DefaultOptions()
	opts.MaxIterations = 500

	result := placement.Solve(components, edges, members, bbox, opts)

	require.Less(t, result.HPWLAfter, result.HPWLBefore)
	for _, c := range components {
		require.GreaterOrEqual(t, c.X, bbox.MinX)
		require.LessOrEqual(t, c.X, bbox.MaxX)
		require.GreaterOrEqual(t, c.Y, bbox.MinY)
		require.LessOrEqual(t, c.Y, bbox.MaxY)
	}
}

func TestSolveLockedComponentNeverMoves(t *testing.T) {
	components := []*placement.Component{
		{Reference: "C1", X: 10, Y: 10, Width: 1, Height: 1, Locked: true},
		{Reference: "C2", X: 90, Y: 90, Width: 1, Height: 1},
	}
	edges := []placement.Edge{{A: "C1", B: "C2", Weight: 1}}
	members := map[int][]string{1: {"C1", "C2"}}
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	opts := placement.DefaultOptions()
	opts.MaxIterations = 200

	placement.Solve(components, edges, members, bbox, opts)

	require.Equal(t, 10.0, components[0].X)
	require.Equal(t, 10.0, components[0].Y)
}

func TestSpreadSeparatesOverlappingComponentsWithoutNetForces(t *testing.T) {
	components := []*placement.Component{
		{Reference: "C1", X: 50, Y: 50, Width: 2, Height: 2},
		{Reference: "C2", X: 50.005, Y: 50, Width: 2, Height: 2},
	}
	members := map[int][]string{}
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	opts := placement.DefaultOptions()
	opts.MaxIterations = 200

	result := placement.Spread(components, members, bbox, opts)

	distance := components[1].X - components[0].X
	require.Greater(t, distance, 0.005, "repulsion must push the pair further apart than their starting gap")
	require.NotEmpty(t, result.Movements)
}

func TestSolveReportsOverlapCount(t *testing.T) {
	components := []*placement.Component{
		{Reference: "C1", X: 50, Y: 50, Width: 2, Height: 2, Locked: true},
		{Reference: "C2", X: 50.1, Y: 50, Width: 2, Height: 2, Locked: true},
	}
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	opts := placement.DefaultOptions()
	opts.MaxIterations = 1

	result := placement.Solve(components, nil, nil, bbox, opts)
	require.Equal(t, 1, result.Overlaps)
}
