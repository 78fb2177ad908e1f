package board

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolagi/kicadcore/sexp"
)

const sampleBoard = `(kicad_pcb
  (version 20241229)
  (generator pcbnew)
  (general (thickness 1.6))
  (layers (0 "F.Cu" signal) (31 "B.Cu" signal) (40 "Edge.Cuts" user))
  (net 0 "")
  (net 1 "GND")
  (footprint "Resistor_SMD:R_0603"
    (layer "F.Cu")
    (uuid "fp-1")
    (at 10 20 90)
    (property "Reference" "R1")
    (property "Value" "10k")
    (pad "1" smd rect (at -0.8 0) (size 0.9 0.8) (layers "F.Cu" "F.Paste" "F.Mask") (net 1 "GND")))
  (segment (start 1 1) (end 5 1) (width 0.25) (layer "F.Cu") (net 1) (uuid "seg-1"))
  (via (at 3 3) (size 0.6) (drill 0.3) (layers "F.Cu" "B.Cu") (net 1) (uuid "via-1"))
  (zone (net 1) (layer "F.Cu") (min_thickness 0.2) (priority 1)
    (polygon (pts (xy 0 0) (xy 10 0) (xy 10 10) (xy 0 10))))
  (gr_line (start 0 0) (end 50 0) (layer "Edge.Cuts"))
  (gr_line (start 50 0) (end 50 50) (layer "Edge.Cuts"))
  (gr_line (start 50 50) (end 0 50) (layer "Edge.Cuts"))
  (gr_line (start 0 50) (end 0 0) (layer "Edge.Cuts")))`

func parseSample(t *testing.T) *sexp.Node {
	t.Helper()
	n, err := sexp.Parse(sampleBoard)
	require.NoError(t, err)
	return n
}

func TestExtractMeta(t *testing.T) {
	root := parseSample(t)
	meta := ExtractMeta(root)
	require.Equal(t, "20241229", meta.Version)
	require.Equal(t, "pcbnew", meta.Generator)
	require.Equal(t, 1.6, meta.ThicknessMM)
}

func TestExtractLayers(t *testing.T) {
	layers := ExtractLayers(parseSample(t))
	require.Len(t, layers, 3)
	require.Equal(t, 0, layers[0].Number)
	require.Equal(t, "F.Cu", layers[0].Name)
	require.Equal(t, LayerSignal, layers[0].Type)
	require.Equal(t, 40, layers[2].Number)
	require.Equal(t, LayerUser, layers[2].Type)
}

func TestExtractNets(t *testing.T) {
	nets := ExtractNets(parseSample(t))
	require.Equal(t, []Net{{0, ""}, {1, "GND"}}, nets)
}

func TestExtractFootprintsAndPads(t *testing.T) {
	fps := ExtractFootprints(parseSample(t))
	require.Len(t, fps, 1)
	fp := fps[0]
	require.Equal(t, "Resistor_SMD:R_0603", fp.LibID)
	require.Equal(t, "R1", fp.Reference)
	require.Equal(t, "10k", fp.Value)
	require.Equal(t, 10.0, fp.Position.X)
	require.Equal(t, 90.0, fp.Position.Angle)
	require.True(t, fp.Position.HasAngle)
	require.Len(t, fp.Pads, 1)
	pad := fp.Pads[0]
	require.Equal(t, "1", pad.Number)
	require.Equal(t, PadSMD, pad.Type)
	require.Equal(t, 1, pad.NetNumber)
	require.Equal(t, "GND", pad.NetName)
	require.Contains(t, pad.Layers, "F.Cu")
}

func TestAbsolutePadPositionRotatesByFootprintAngle(t *testing.T) {
	fp := Footprint{Position: Position{X: 10, Y: 10, Angle: 90, HasAngle: true}}
	pad := Pad{Position: Position{X: 1, Y: 0}}
	abs := AbsolutePadPosition(fp, pad)
	require.InDelta(t, 10, abs.X, 1e-9)
	require.InDelta(t, 11, abs.Y, 1e-9)
}

func TestExtractSegmentsViasZones(t *testing.T) {
	segments := ExtractSegments(parseSample(t))
	require.Len(t, segments, 1)
	require.Equal(t, 0.25, segments[0].Width)
	require.Equal(t, 1, segments[0].Net)

	vias := ExtractVias(parseSample(t))
	require.Len(t, vias, 1)
	require.Equal(t, "F.Cu", vias[0].StartLayer)
	require.Equal(t, "B.Cu", vias[0].EndLayer)

	zones := ExtractZones(parseSample(t))
	require.Len(t, zones, 1)
	require.Len(t, zones[0].Outline, 4)
	require.Equal(t, 1, zones[0].Priority)
}

func TestExtractBoardOutline(t *testing.T) {
	bbox, ok := ExtractBoardOutline(parseSample(t))
	require.True(t, ok)
	require.Equal(t, BoundingBox{MinX: 0, MinY: 0, MaxX: 50, MaxY: 50}, bbox)
}

func TestExtractBoardOutlineAbsentReturnsFalse(t *testing.T) {
	root, err := sexp.Parse(`(kicad_pcb (version 1))`)
	require.NoError(t, err)
	_, ok := ExtractBoardOutline(root)
	require.False(t, ok)
}

func TestLayerAliasTable(t *testing.T) {
	require.Equal(t, "F.SilkS", ToInternalLayerName("F.Silkscreen"))
	require.Equal(t, "Dwgs.User", ToInternalLayerName("User.Drawings"))
	require.Equal(t, "F.Silkscreen", ToUserFacingLayerName("F.SilkS"))
	require.Equal(t, "B.Cu", FlipLayerName("F.Cu"))
	require.Equal(t, "Edge.Cuts", FlipLayerName("Edge.Cuts"))
}
