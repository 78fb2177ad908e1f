package document

import "sync"

// Registry holds the process-wide "currently loaded board" and
// "currently loaded schematic", plus whatever cached projections a
// caller wants to keep alongside them (spec.md §5, §9: "a process-wide
// 'currently loaded board' ... guard all accesses with a mutex that
// holds only over the reference swap, never over I/O").
//
// The cached values are untyped here deliberately: Registry lives in
// this package so that document.Load/Save stay the single owner of
// file I/O, while the cache payloads (entity summaries, footprint
// lists) are defined by package board, which document does not
// import.
type Registry struct {
	mu sync.RWMutex

	board     *Document
	schematic *Document

	boardSummary    any
	boardFootprints any
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Board returns the currently registered board document, or nil.
func (r *Registry) Board() *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.board
}

// SetBoard swaps in d as the current board and invalidates any cached
// projections of the previous one. The lock is held only for the
// duration of the swap.
func (r *Registry) SetBoard(d *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.board = d
	r.boardSummary = nil
	r.boardFootprints = nil
}

// LoadBoard reads path (outside any lock) and then registers the
// result as the current board under the lock.
func (r *Registry) LoadBoard(path string) (*Document, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	r.SetBoard(d)
	return d, nil
}

// Schematic returns the currently registered schematic document, or
// nil.
func (r *Registry) Schematic() *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schematic
}

// SetSchematic swaps in d as the current schematic.
func (r *Registry) SetSchematic(d *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schematic = d
}

// LoadSchematic reads path (outside any lock) and then registers the
// result as the current schematic under the lock.
func (r *Registry) LoadSchematic(path string) (*Document, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	r.SetSchematic(d)
	return d, nil
}

// CachedBoardSummary returns the cached board summary set by
// SetCachedBoardSummary, if any, and whether it is present. It is
// invalidated automatically whenever SetBoard registers a new board.
func (r *Registry) CachedBoardSummary() (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.boardSummary, r.boardSummary != nil
}

// SetCachedBoardSummary stores a caller-defined summary value (e.g. a
// board.Meta) alongside the current board.
func (r *Registry) SetCachedBoardSummary(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boardSummary = v
}

// CachedBoardFootprints returns the cached footprint projection set by
// SetCachedBoardFootprints, if any, and whether it is present.
func (r *Registry) CachedBoardFootprints() (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.boardFootprints, r.boardFootprints != nil
}

// SetCachedBoardFootprints stores a caller-defined footprint
// projection (e.g. []board.Footprint) alongside the current board.
func (r *Registry) SetCachedBoardFootprints(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boardFootprints = v
}
