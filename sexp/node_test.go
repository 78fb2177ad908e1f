package sexp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeQueries(t *testing.T) {
	root, err := Parse(`(kicad_pcb (version 20241229) (net 0 "") (net 1 "GND") (layers (0 "F.Cu" signal)))`)
	require.NoError(t, err)

	require.True(t, root.IsList())
	require.Equal(t, "kicad_pcb", root.Head())

	version := root.FirstChild("version")
	require.NotNil(t, version)
	v, ok := version.FirstAtomValue()
	require.True(t, ok)
	require.Equal(t, "20241229", v)

	nets := root.ChildrenNamed("net")
	require.Len(t, nets, 2)
	require.Equal(t, []string{"1", "GND"}, nets[1].AtomValues())

	layers := root.Find("layers")
	require.NotNil(t, layers)
	require.Len(t, layers.Children(), 1)
}

func TestNodeCloneIndependence(t *testing.T) {
	root, err := Parse(`(footprint "R" (at 1 2))`)
	require.NoError(t, err)

	clone, err := root.Clone()
	require.NoError(t, err)
	require.True(t, root.Equal(clone))

	at := clone.FirstChild("at")
	at.ReplaceChild(0, NewAtom("99"))
	require.False(t, root.Equal(clone))

	originalAt := root.FirstChild("at")
	v, _ := originalAt.AtomAt(0)
	require.Equal(t, "1", v)
}

func TestNodeEqualIgnoresLexeme(t *testing.T) {
	a, err := Parse(`(at 1.500 2)`)
	require.NoError(t, err)
	b := NewList("at", NewAtom("1.500"), NewAtom("2"))
	require.True(t, a.Equal(b))
}
