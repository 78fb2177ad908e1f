// Package session implements the transactional session model (§4.E,
// §4.F): a preview/apply/undo/commit/rollback state machine over a
// working copy of a board document, and the typed catalog of
// mutation operations that record reversible ChangeRecords.
package session
