// Package board implements the typed, read-only extractors (§4.D) that
// project a parsed .kicad_pcb/.kicad_sch tree into domain entities:
// nets, layers, footprints, pads, segments, vias, zones, the board
// outline, and schematic symbols. Extraction is tolerant: a missing
// optional field becomes its zero value, and unknown children of a
// node are ignored rather than rejected (§4.D).
package board
