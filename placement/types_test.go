package placement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolagi/kicadcore/board"
	"github.com/nicolagi/kicadcore/placement"
)

func TestEstimateBBoxSpansPadsWithMinimumClamp(t *testing.T) {
	fp := board.Footprint{
		Reference: "R1",
		Pads: []board.Pad{
			{Position: board.Position{X: -1, Y: 0}, Width: 0.2, Height: 0},
			{Position: board.Position{X: 1, Y: 0}, Width: 0.2, Height: 0},
		},
	}
	w, h := placement.EstimateBBox(fp)
	require.InDelta(t, 2.2, w, 1e-9)
	require.Equal(t, 0.1, h, "degenerate vertical span clamps to the 0.1mm minimum")
}

func TestEstimateBBoxPadlessFootprintGetsDefaultSize(t *testing.T) {
	w, h := placement.EstimateBBox(board.Footprint{Reference: "J1"})
	require.Equal(t, 1.0, w)
	require.Equal(t, 1.0, h)
}

func TestBuildConnectivityCountsSharedNets(t *testing.T) {
	footprints := []board.Footprint{
		{Reference: "R1", Pads: []board.Pad{{NetNumber: 1}, {NetNumber: 2}}},
		{Reference: "R2", Pads: []board.Pad{{NetNumber: 1}, {NetNumber: 2}}},
		{Reference: "R3", Pads: []board.Pad{{NetNumber: 3}}},
	}
	edges := placement.BuildConnectivity(footprints)
	require.Len(t, edges, 1, "only R1-R2 share nets; R3 is isolated")
	require.Equal(t, 2, edges[0].Weight, "R1 and R2 share both net 1 and net 2")
}

func TestBuildConnectivityIgnoresNoNetPads(t *testing.T) {
	footprints := []board.Footprint{
		{Reference: "R1", Pads: []board.Pad{{NetNumber: 0}}},
		{Reference: "R2", Pads: []board.Pad{{NetNumber: 0}}},
	}
	edges := placement.BuildConnectivity(footprints)
	require.Empty(t, edges, "net 0 never forms a connection")
}

func TestBuildNetMembershipGroupsByNet(t *testing.T) {
	footprints := []board.Footprint{
		{Reference: "R1", Pads: []board.Pad{{NetNumber: 5}}},
		{Reference: "R2", Pads: []board.Pad{{NetNumber: 5}}},
	}
	members := placement.BuildNetMembership(footprints)
	require.ElementsMatch(t, []string{"R1", "R2"}, members[5])
}
