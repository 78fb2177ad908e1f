// Package config collects the small set of environment-derived
// knobs used by the routing and placement engines, and the library
// search path used to resolve .kicad_mod footprints by lib_id.
//
// There is no file-based configuration and no daemon to configure:
// every caller already owns its own configuration story (it embeds
// this module inside a larger server), so C is populated purely from
// environment variables, with defaults matching the documented
// defaults of each tunable.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// C holds grid, router, and placement tuning defaults plus the
// resolved footprint/symbol library search path. Zero value is not
// meaningful; use Load.
type C struct {
	// GridResolutionMM is the default obstacle grid resolution, in
	// millimeters per cell.
	GridResolutionMM float64

	// ClearanceMM is the default clearance added around every
	// obstacle when no caller-supplied clearance is given.
	ClearanceMM float64

	// ViaCost is the default cost of an inter-layer move in the A*
	// pathfinder.
	ViaCost float64

	// MaxIterations bounds the number of popped nodes in a single
	// A* search before it reports iteration-limit-exceeded.
	MaxIterations int

	// CopperLayers is the default ordered list of copper layers an
	// obstacle grid spans when the caller does not specify one.
	CopperLayers []string

	// FootprintLibraryDirs and SymbolLibraryDirs are searched, in
	// order, when resolving a lib_id to a .kicad_mod or .kicad_sym
	// file on disk.
	FootprintLibraryDirs []string
	SymbolLibraryDirs    []string
}

// Default footprint/pathfinder tuning values, matching the documented
// defaults: 0.25 mm grid cells, via cost 5.0, 500,000 popped-node
// ceiling, [F.Cu, B.Cu] as the default copper stack.
const (
	DefaultGridResolutionMM = 0.25
	DefaultViaCost          = 5.0
	DefaultMaxIterations    = 500000
)

// Load builds a C from environment variables, falling back to the
// documented defaults for anything unset or unparsable.
func Load() *C {
	c := &C{
		GridResolutionMM:     envFloat("KICAD_GRID_RESOLUTION_MM", DefaultGridResolutionMM),
		ClearanceMM:          envFloat("KICAD_CLEARANCE_MM", 0.2),
		ViaCost:              envFloat("KICAD_VIA_COST", DefaultViaCost),
		MaxIterations:        envInt("KICAD_MAX_ITERATIONS", DefaultMaxIterations),
		CopperLayers:         []string{"F.Cu", "B.Cu"},
		FootprintLibraryDirs: footprintLibraryDirs(),
		SymbolLibraryDirs:    symbolLibraryDirs(),
	}
	return c
}

// footprintLibraryDirs resolves the footprint search path from
// KICAD9_FOOTPRINT_DIR, KICAD8_FOOTPRINT_DIR, and the legacy
// unversioned KICAD_FOOTPRINT_DIR, in that order of preference, plus
// the well-known system install locations. Entries are included only
// if the corresponding environment variable is set; callers resolving
// a lib_id walk the returned list in order and stop at the first hit.
func footprintLibraryDirs() []string {
	var dirs []string
	for _, name := range []string{"KICAD9_FOOTPRINT_DIR", "KICAD8_FOOTPRINT_DIR", "KICAD_FOOTPRINT_DIR"} {
		if v := os.Getenv(name); v != "" {
			dirs = append(dirs, v)
		}
	}
	dirs = append(dirs, wellKnownFootprintDirs()...)
	return dirs
}

func symbolLibraryDirs() []string {
	var dirs []string
	for _, name := range []string{"KICAD9_SYMBOL_DIR", "KICAD8_SYMBOL_DIR", "KICAD_SYMBOL_DIR"} {
		if v := os.Getenv(name); v != "" {
			dirs = append(dirs, v)
		}
	}
	dirs = append(dirs, wellKnownSymbolDirs()...)
	return dirs
}

// wellKnownFootprintDirs lists the install paths KiCad 9 and 8 use on
// Linux and macOS. Paths that don't exist on this machine are left in
// the list; resolution simply skips them (see session.LibraryResolver).
func wellKnownFootprintDirs() []string {
	return []string{
		"/usr/share/kicad/footprints",
		"/usr/local/share/kicad/footprints",
		filepath.Join("/Applications", "KiCad", "KiCad.app", "Contents", "SharedSupport", "footprints"),
	}
}

func wellKnownSymbolDirs() []string {
	return []string{
		"/usr/share/kicad/symbols",
		"/usr/local/share/kicad/symbols",
		filepath.Join("/Applications", "KiCad", "KiCad.app", "Contents", "SharedSupport", "symbols"),
	}
}

func envFloat(name string, fallback float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
