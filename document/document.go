// Package document implements the file-bound S-expression tree (§4.C):
// load/save of .kicad_pcb/.kicad_sch/.kicad_mod files, and the
// mutex-guarded global "currently loaded board/schematic" state used by
// higher-level tool handlers (§5, §9).
package document

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/nicolagi/kicadcore/sexp"
)

// Document is a (path, root node, original raw text) triple. The raw
// text is the text captured at Load (or New) and is not updated by
// later edits; Clone deep-copies by serializing and re-parsing the
// current root, and FileType reports the extension of path.
type Document struct {
	path    string
	root    *sexp.Node
	rawText string
}

// Load reads path as UTF-8 (replacing invalid byte sequences, per
// spec.md §4.C), parses it, and returns the resulting Document. Any
// parse error is propagated, wrapped with the path (errors.Cause and
// errors.Is still reach the sexp error); the file is considered not
// loaded.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "document: load %q", path)
	}
	text := strings.ToValidUTF8(string(raw), "�")
	root, err := sexp.Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "document: parse %q", path)
	}
	log.WithField("component", "document").WithField("path", path).Debug("loaded document")
	return &Document{path: path, root: root, rawText: text}, nil
}

// New wraps an already-parsed root under path, with no backing file
// yet (e.g. for synthesized documents created entirely in memory).
func New(path string, root *sexp.Node) *Document {
	return &Document{path: path, root: root, rawText: sexp.Write(root)}
}

// Path returns the document's file path.
func (d *Document) Path() string { return d.path }

// SetPath changes the path Save writes to, without touching the tree.
func (d *Document) SetPath(path string) { d.path = path }

// Root returns the document's tree root. Callers may mutate it in
// place between Load and Save.
func (d *Document) Root() *sexp.Node { return d.root }

// SetRoot replaces the document's tree root wholesale (used by Session
// commit, §4.E).
func (d *Document) SetRoot(root *sexp.Node) { d.root = root }

// RawText returns the raw text captured at the moment of Load (or New).
// It is not kept in sync with in-place edits to Root(); invariant 2 in
// spec.md §3 only requires that parsing this text again reproduces a
// logical tree equal to the tree it was parsed from, not that it track
// subsequent edits.
func (d *Document) RawText() string { return d.rawText }

// FileType returns the document's file extension, e.g. ".kicad_pcb".
func (d *Document) FileType() string {
	return filepath.Ext(d.path)
}

// Clone deep-copies the document by serializing its current root and
// re-parsing that text (spec.md §9's canonical deep-copy mechanism for
// the atom-or-list variant), so in-memory edits made since Load are
// preserved in the clone, and the clone shares no Node pointers with
// the original.
func (d *Document) Clone() (*Document, error) {
	root, err := d.root.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "document: clone")
	}
	return &Document{path: d.path, root: root, rawText: d.rawText}, nil
}

// Save serializes the root and writes it to path (or the document's own
// path, if path is empty), followed by a trailing newline.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.path
	}
	text := sexp.Write(d.root) + "\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.Wrapf(err, "document: save %q", path)
	}
	log.WithField("component", "document").WithField("path", path).Debug("saved document")
	return nil
}
