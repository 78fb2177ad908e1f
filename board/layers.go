package board

// userToInternalLayer is the table the system uses to translate
// user-facing layer names to the internal names KiCad actually
// persists, before emitting S-expressions (§6).
var userToInternalLayer = map[string]string{
	"F.Silkscreen":  "F.SilkS",
	"B.Silkscreen":  "B.SilkS",
	"F.Adhesive":    "F.Adhes",
	"B.Adhesive":    "B.Adhes",
	"F.Courtyard":   "F.CrtYd",
	"B.Courtyard":   "B.CrtYd",
	"User.Drawings": "Dwgs.User",
	"User.Comments": "Cmts.User",
	"User.Eco1":     "Eco1.User",
	"User.Eco2":     "Eco2.User",
}

var internalToUserLayer = func() map[string]string {
	m := make(map[string]string, len(userToInternalLayer))
	for user, internal := range userToInternalLayer {
		m[internal] = user
	}
	return m
}()

// ToInternalLayerName translates a user-facing layer name (as might be
// typed by an LLM client or tool caller) to the internal name KiCad
// persists. Names with no known alias pass through unchanged.
func ToInternalLayerName(name string) string {
	if internal, ok := userToInternalLayer[name]; ok {
		return internal
	}
	return name
}

// ToUserFacingLayerName is the inverse of ToInternalLayerName, used to
// populate Layer.Alias when a layers declaration in the file did not
// carry an explicit alias atom.
func ToUserFacingLayerName(name string) string {
	if user, ok := internalToUserLayer[name]; ok {
		return user
	}
	return name
}

// flipLayerPairs maps a copper/graphic layer to its opposite board
// side, for flip_component (§4.F): F.<->B. for Cu, SilkS, Fab, CrtYd,
// Mask, Paste, Adhes.
var flipLayerPairs = map[string]string{
	"F.Cu": "B.Cu", "B.Cu": "F.Cu",
	"F.SilkS": "B.SilkS", "B.SilkS": "F.SilkS",
	"F.Fab": "B.Fab", "B.Fab": "F.Fab",
	"F.CrtYd": "B.CrtYd", "B.CrtYd": "F.CrtYd",
	"F.Mask": "B.Mask", "B.Mask": "F.Mask",
	"F.Paste": "B.Paste", "B.Paste": "F.Paste",
	"F.Adhes": "B.Adhes", "B.Adhes": "F.Adhes",
}

// FlipLayerName returns the opposite-side name for layer, or layer
// itself unchanged if it names neither a front nor back layer in the
// flip table (e.g. *.Cu wildcards, Edge.Cuts, or a layer with no
// opposite side).
func FlipLayerName(layer string) string {
	if flipped, ok := flipLayerPairs[layer]; ok {
		return flipped
	}
	return layer
}
