// Package sexp implements a round-trip-faithful reader, tree model, and
// writer for KiCad's Lisp-style S-expression file formats (.kicad_pcb,
// .kicad_sch, .kicad_mod).
//
// A Node is a tagged union of two variants, atom and list, chosen
// explicitly by callers via Kind rather than modeled as an interface
// hierarchy: the set of variants is closed (spec invariant), so a type
// switch on an interface would just be reimplementing the tag by hand.
// Atoms retain both their decoded value and the literal substring that
// produced them; Write emits that substring unchanged, which is what
// makes Parse(Write(n)) == n a guarantee rather than an approximation
// for anything this package itself produced.
package sexp
