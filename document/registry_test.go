package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryInvalidatesCacheOnSetBoard(t *testing.T) {
	r := NewRegistry()
	d1 := New("a.kicad_pcb", mustParse(t, `(kicad_pcb)`))
	r.SetBoard(d1)
	r.SetCachedBoardSummary("summary-for-a")

	summary, ok := r.CachedBoardSummary()
	require.True(t, ok)
	require.Equal(t, "summary-for-a", summary)

	d2 := New("b.kicad_pcb", mustParse(t, `(kicad_pcb)`))
	r.SetBoard(d2)

	_, ok = r.CachedBoardSummary()
	require.False(t, ok)
	require.Same(t, d2, r.Board())
}

func TestRegistryBoardAndSchematicAreIndependent(t *testing.T) {
	r := NewRegistry()
	board := New("a.kicad_pcb", mustParse(t, `(kicad_pcb)`))
	schematic := New("a.kicad_sch", mustParse(t, `(kicad_sch)`))
	r.SetBoard(board)
	r.SetSchematic(schematic)
	require.Same(t, board, r.Board())
	require.Same(t, schematic, r.Schematic())
}
