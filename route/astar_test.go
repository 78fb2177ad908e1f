package route_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolagi/kicadcore/board"
	"github.com/nicolagi/kicadcore/route"
)

func TestAStarOnEmptyGridFindsStraightLine(t *testing.T) {
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	g := route.NewGrid(nil, nil, bbox, []string{"F.Cu"}, 1.0, 0, -1)

	result, err := route.AStar(g,
		route.Node{Col: 2, Row: 2, Layer: 0},
		route.Node{Col: 18, Row: 2, Layer: 0},
		route.Options{Diagonal: true, ViaCost: 5, MaxIterations: 500000},
	)
	require.NoError(t, err)
	require.Len(t, result.Path, 2, "straight horizontal run collapses to its two endpoints")
	require.Equal(t, 2, result.Path[0].Col)
	require.Equal(t, 2, result.Path[0].Row)
	require.Equal(t, 18, result.Path[len(result.Path)-1].Col)
}

func TestAStarRoutesAroundWallViaSecondLayer(t *testing.T) {
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	g := route.NewGrid(nil, nil, bbox, []string{"F.Cu", "B.Cu"}, 1.0, 0, -1)
	for row := 0; row < 20; row++ {
		g.Block(10, row, 0, -1)
	}

	result, err := route.AStar(g,
		route.Node{Col: 2, Row: 2, Layer: 0},
		route.Node{Col: 18, Row: 2, Layer: 0},
		route.Options{Diagonal: true, ViaCost: 1, MaxIterations: 500000},
	)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Vias), 2, "must cross to layer 1 and back to clear the wall")
	for _, wp := range result.Path {
		require.Contains(t, []int{0, 1}, wp.Layer)
	}
}

func TestAStarStartOutOfBoundsIsNoPath(t *testing.T) {
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	g := route.NewGrid(nil, nil, bbox, []string{"F.Cu"}, 1.0, 0, -1)
	_, err := route.AStar(g, route.Node{Col: -1, Row: 0, Layer: 0}, route.Node{Col: 5, Row: 5, Layer: 0}, route.Options{})
	require.ErrorIs(t, err, route.ErrNoPath)
}

func TestAStarBlockedGoalIsNoPath(t *testing.T) {
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	g := route.NewGrid(nil, nil, bbox, []string{"F.Cu"}, 1.0, 0, -1)
	g.Block(5, 5, 0, -1)
	_, err := route.AStar(g, route.Node{Col: 1, Row: 1, Layer: 0}, route.Node{Col: 5, Row: 5, Layer: 0}, route.Options{})
	require.ErrorIs(t, err, route.ErrNoPath)
}

func TestAStarFullyEnclosedGoalIsNoPath(t *testing.T) {
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	g := route.NewGrid(nil, nil, bbox, []string{"F.Cu"}, 1.0, 0, -1)
	for _, cell := range [][2]int{{4, 4}, {4, 5}, {4, 6}, {5, 4}, {5, 6}, {6, 4}, {6, 5}, {6, 6}} {
		g.Block(cell[0], cell[1], 0, -1)
	}
	_, err := route.AStar(g, route.Node{Col: 1, Row: 1, Layer: 0}, route.Node{Col: 5, Row: 5, Layer: 0}, route.Options{})
	require.ErrorIs(t, err, route.ErrNoPath)
}

func TestAStarIterationLimitReportsNoPath(t *testing.T) {
	bbox := board.BoundingBox{MinX: 0, MinY: 0, MaxX: 50, MaxY: 50}
	g := route.NewGrid(nil, nil, bbox, []string{"F.Cu"}, 1.0, 0, -1)
	_, err := route.AStar(g,
		route.Node{Col: 0, Row: 0, Layer: 0},
		route.Node{Col: 49, Row: 49, Layer: 0},
		route.Options{Diagonal: true, ViaCost: 5, MaxIterations: 5},
	)
	require.Error(t, err)
	require.ErrorIs(t, err, route.ErrNoPath)
}
