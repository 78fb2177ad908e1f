// Package route builds a sparse multi-layer obstacle grid from a
// board's footprints and copper, finds paths across it with A*, and
// sequences whole nets through it with a batch router.
package route
