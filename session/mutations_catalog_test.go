package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolagi/kicadcore/session"
)

func TestRotateComponentAppendsThenUndoRemovesAngle(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyRotateComponent(s, "C7", 90)
	require.NoError(t, err)
	at := s.Working().Root().ChildrenNamed("footprint")[0].FirstChild("at")
	angle, ok := at.AtomAt(2)
	require.True(t, ok)
	require.Equal(t, "90", angle)

	_, err = s.Undo()
	require.NoError(t, err)
	at = s.Working().Root().ChildrenNamed("footprint")[0].FirstChild("at")
	_, ok = at.AtomAt(2)
	require.False(t, ok)
}

func TestFlipComponentFlipsLayerAndPadLayersPreservingWildcards(t *testing.T) {
	s := newTestSession(t)
	fp := s.Working().Root().ChildrenNamed("footprint")[0]
	fp.Append(padWithLayers(t, "1", "F.Cu", "*.Mask"))

	_, err := session.ApplyFlipComponent(s, "C7")
	require.NoError(t, err)

	fp = s.Working().Root().ChildrenNamed("footprint")[0]
	layer, _ := fp.FirstChild("layer").FirstAtomValue()
	require.Equal(t, "B.Cu", layer)
	pad := fp.ChildrenNamed("pad")[0]
	values := pad.FirstChild("layers").AtomValues()
	require.Equal(t, []string{"B.Cu", "*.Mask"}, values)
}

func TestDeleteComponentThenUndoReinsertsAtSameIndex(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyDeleteComponent(s, "C7")
	require.NoError(t, err)
	require.Empty(t, s.Working().Root().ChildrenNamed("footprint"))

	_, err = s.Undo()
	require.NoError(t, err)
	require.Len(t, s.Working().Root().ChildrenNamed("footprint"), 1)
}

func TestDeleteComponentMissingReferenceFails(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyDeleteComponent(s, "nope")
	require.ErrorIs(t, err, session.ErrReferenceNotFound)
}

func TestPlaceComponentFallsBackToSkeletonWithoutResolver(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyPlaceComponent(s, nil, "Capacitor_SMD:C_0402", "C8", "100nF", 5, 5, "F.Cu")
	require.NoError(t, err)
	fps := s.Working().Root().ChildrenNamed("footprint")
	require.Len(t, fps, 2)
	var newFP = fps[1]
	libID, _ := newFP.FirstAtomValue()
	require.Equal(t, "Capacitor_SMD:C_0402", libID)
	props := map[string]string{}
	for _, p := range newFP.ChildrenNamed("property") {
		v := p.AtomValues()
		props[v[0]] = v[1]
	}
	require.Equal(t, "C8", props["Reference"])
}

func TestPlaceComponentRejectsDuplicateReference(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyPlaceComponent(s, nil, "Resistor_SMD:R_0603", "C7", "1k", 0, 0, "F.Cu")
	require.ErrorIs(t, err, session.ErrDuplicateReference)
}

func TestEditComponentUpdatesExistingAndAppendsNewProperty(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyEditComponent(s, "C7", map[string]string{"Value": "22k", "Footprint": "R_0603"})
	require.NoError(t, err)
	fp := s.Working().Root().ChildrenNamed("footprint")[0]
	props := map[string]string{}
	for _, p := range fp.ChildrenNamed("property") {
		v := p.AtomValues()
		props[v[0]] = v[1]
	}
	require.Equal(t, "22k", props["Value"])
	require.Equal(t, "R_0603", props["Footprint"])
}

func TestRouteTraceAppendsSegmentAndUndoRemoves(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyRouteTrace(s, 0, 0, 10, 0, 0.25, "F.Cu", 1)
	require.NoError(t, err)
	require.Len(t, s.Working().Root().ChildrenNamed("segment"), 1)
	_, err = s.Undo()
	require.NoError(t, err)
	require.Empty(t, s.Working().Root().ChildrenNamed("segment"))
}

func TestAddAndDeleteVia(t *testing.T) {
	s := newTestSession(t)
	rec, err := session.ApplyAddVia(s, 5, 5, 1, 0.6, 0.3, "F.Cu", "B.Cu")
	require.NoError(t, err)
	require.Equal(t, "add_via", rec.Operation)
	vias := s.Working().Root().ChildrenNamed("via")
	require.Len(t, vias, 1)
	uuid, _ := vias[0].FirstChild("uuid").FirstAtomValue()

	_, err = session.ApplyDeleteVia(s, uuid)
	require.NoError(t, err)
	require.Empty(t, s.Working().Root().ChildrenNamed("via"))
}

func TestDeleteTraceNotFound(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyDeleteTrace(s, "missing-uuid")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestCreateNetAllocatesNextNumberAndRejectsDuplicate(t *testing.T) {
	s := newTestSession(t)
	rec, err := session.ApplyCreateNet(s, "VCC")
	require.NoError(t, err)
	require.Contains(t, rec.AfterSnapshot, "VCC")
	nets := s.Working().Root().ChildrenNamed("net")
	require.Len(t, nets, 3)
	number, _ := nets[2].AtomAt(0)
	require.Equal(t, "2", number)

	_, err = session.ApplyCreateNet(s, "VCC")
	require.ErrorIs(t, err, session.ErrDuplicateReference)
}

func TestDeleteNetRemovesMatchingNode(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyDeleteNet(s, "GND")
	require.NoError(t, err)
	for _, n := range s.Working().Root().ChildrenNamed("net") {
		name, _ := n.AtomAt(1)
		require.NotEqual(t, "GND", name)
	}
}

func TestAssignNetResolvesNameToNumber(t *testing.T) {
	s := newTestSession(t)
	fp := s.Working().Root().ChildrenNamed("footprint")[0]
	fp.Append(padWithLayers(t, "1", "F.Cu"))

	_, err := session.ApplyAssignNet(s, "C7", "1", "GND")
	require.NoError(t, err)
	pad := fp.ChildrenNamed("pad")[0]
	net := pad.FirstChild("net")
	number, _ := net.AtomAt(0)
	name, _ := net.AtomAt(1)
	require.Equal(t, "1", number)
	require.Equal(t, "GND", name)
}

func TestCreateZoneRejectsShortPolygon(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyCreateZone(s, 1, "F.Cu", [][2]float64{{0, 0}, {1, 1}}, 0.2, 0)
	require.ErrorIs(t, err, session.ErrInvalidPolygon)
}

func TestSetBoardSizeReplacesOutlineThenUndoRestoresOriginal(t *testing.T) {
	s := newTestSession(t)
	root := s.Working().Root()
	root.Append(outlineEdge(t, 0, 0, 50, 0))
	root.Append(outlineEdge(t, 50, 0, 50, 50))

	_, err := session.ApplySetBoardSize(s, 100, 80)
	require.NoError(t, err)
	require.Len(t, s.Working().Root().ChildrenNamed("gr_line"), 4)

	_, err = s.Undo()
	require.NoError(t, err)
	require.Len(t, s.Working().Root().ChildrenNamed("gr_line"), 2)
}

func TestAddMountingHole(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyAddMountingHole(s, 95, 5, 3.2, 6.0)
	require.NoError(t, err)
	found := false
	for _, fp := range s.Working().Root().ChildrenNamed("footprint") {
		if libID, _ := fp.FirstAtomValue(); libID == "MountingHole:MountingHole" {
			found = true
		}
	}
	require.True(t, found)
}

func TestAddBoardText(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyAddBoardText(s, "REV A", 10, 10, "F.SilkS", 1.0, 0)
	require.NoError(t, err)
	require.Len(t, s.Working().Root().ChildrenNamed("gr_text"), 1)
}

func TestSetDesignRulesRejectsUnknownKeyBeforeAnyMutation(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplySetDesignRules(s, map[string]string{
		"pad_to_mask_clearance": "0.05",
		"min_track_width":       "0.15",
	})
	require.ErrorIs(t, err, session.ErrDesignRuleKey)
	require.Nil(t, s.Working().Root().FirstChild("setup"))
}

func TestSetDesignRulesAppliesCanonicalAndAliasKeys(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplySetDesignRules(s, map[string]string{
		"pad_to_mask_clearance": "0.05",
		"paste_clearance":       "0.02",
	})
	require.NoError(t, err)
	setup := s.Working().Root().FirstChild("setup")
	require.NotNil(t, setup)
	v, _ := setup.FirstChild("pad_to_mask_clearance").FirstAtomValue()
	require.Equal(t, "0.05", v)
	v, _ = setup.FirstChild("pad_to_paste_clearance").FirstAtomValue()
	require.Equal(t, "0.02", v)
}

func TestAddNetClass(t *testing.T) {
	s := newTestSession(t)
	_, err := session.ApplyAddNetClass(s, "Power", 0.2, 0.3, 0.6, 0.3, []string{"GND", "VCC"})
	require.NoError(t, err)
	// The sample board has no setup node, so net_class goes at the root.
	require.Nil(t, s.Working().Root().FirstChild("setup"))
	require.Len(t, s.Working().Root().ChildrenNamed("net_class"), 1)
}

func TestSetLayerConstraintsCreatesThenUpdates(t *testing.T) {
	s := newTestSession(t)
	minWidth := 0.15
	_, err := session.ApplySetLayerConstraints(s, "F.Cu", &minWidth, nil)
	require.NoError(t, err)

	minClearance := 0.2
	_, err = session.ApplySetLayerConstraints(s, "F.Cu", nil, &minClearance)
	require.NoError(t, err)

	setup := s.Working().Root().FirstChild("setup")
	lc := setup.ChildrenNamed("layer_constraints")
	require.Len(t, lc, 1)
	w, _ := lc[0].FirstChild("min_width").FirstAtomValue()
	c, _ := lc[0].FirstChild("min_clearance").FirstAtomValue()
	require.Equal(t, "0.15", w)
	require.Equal(t, "0.2", c)
}
