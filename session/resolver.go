package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nicolagi/kicadcore/config"
	"github.com/nicolagi/kicadcore/sexp"
)

// LibraryResolver resolves a "libname:fpname" lib_id to a parsed
// .kicad_mod footprint template by walking a configured library
// search path (§4.F `place_component`, §6 "Environment"). Resolution
// failure is non-fatal: callers fall back to a skeleton footprint.
type LibraryResolver struct {
	Dirs []string
}

// NewLibraryResolver builds a resolver from a config.C's footprint
// library directories.
func NewLibraryResolver(c *config.C) *LibraryResolver {
	if c == nil {
		return &LibraryResolver{}
	}
	return &LibraryResolver{Dirs: c.FootprintLibraryDirs}
}

// Resolve looks up libID ("libname:fpname") under each configured
// directory as <dir>/<libname>.pretty/<fpname>.kicad_mod, returning
// the first parsed match. ok is false, with a nil error, if no file
// was found anywhere on the search path; err is non-nil only for a
// file that exists but fails to parse.
func (r *LibraryResolver) Resolve(libID string) (node *sexp.Node, ok bool, err error) {
	libName, fpName, found := strings.Cut(libID, ":")
	if !found {
		return nil, false, nil
	}
	for _, dir := range r.Dirs {
		path := filepath.Join(dir, libName+".pretty", fpName+".kicad_mod")
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		node, err = sexp.Parse(strings.ToValidUTF8(string(raw), "�"))
		if err != nil {
			return nil, false, err
		}
		return node, true, nil
	}
	return nil, false, nil
}
