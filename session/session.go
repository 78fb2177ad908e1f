package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/nicolagi/kicadcore/document"
)

var logger = log.WithField("component", "session")

// State is one of the three states in the session state machine
// (§4.E): active is the only non-terminal state.
type State int

const (
	StateActive State = iota
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Session owns a working copy of a board document, cloned from an
// original document at Start. Mutations are applied to the working
// copy only; the original is read but never mutated until Commit
// (§4.E, §5).
type Session struct {
	id       string
	original *document.Document
	working  *document.Document
	state    State
	changes  []*ChangeRecord
	changeSeq int
}

// nextChangeID returns a short, session-scoped, deterministic change
// identifier; uniqueness only needs to hold within one session.
func (s *Session) nextChangeID() string {
	s.changeSeq++
	return fmt.Sprintf("%s-%d", s.id, s.changeSeq)
}

// Start clones doc's tree into a fresh working copy and returns a new
// active Session over it (§4.E). The original document is left
// untouched until Commit.
func Start(doc *document.Document) (*Session, error) {
	working, err := doc.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "session: start")
	}
	id, err := newSessionID()
	if err != nil {
		return nil, errors.Wrap(err, "session: start")
	}
	logger.WithField("session", id).WithField("path", doc.Path()).Debug("session started")
	return &Session{
		id:       id,
		original: doc,
		working:  working,
		state:    StateActive,
	}, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string { return s.id }

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// BoardPath returns the path the session will write to on Commit.
func (s *Session) BoardPath() string { return s.original.Path() }

// Working returns the session's working-copy document. Callers in
// this package read and mutate its tree directly; external callers
// should prefer the named mutation operations.
func (s *Session) Working() *document.Document { return s.working }

// Changes returns the session's append-only change list in
// application order.
func (s *Session) Changes() []*ChangeRecord { return s.changes }

func (s *Session) requireActive() error {
	if s.state != StateActive {
		return errors.Wrapf(ErrSessionNotActive, "session %s is %s", s.id, s.state)
	}
	return nil
}

func (s *Session) record(rec *ChangeRecord) *ChangeRecord {
	rec.Applied = true
	s.changes = append(s.changes, rec)
	logger.WithField("session", s.id).WithField("operation", rec.Operation).WithField("target", rec.Target).Debug("change applied")
	return rec
}

// Undo finds the most recently applied change, restores its before
// state, and flips its Applied flag to false (§4.E). Undo is linear:
// replaying forward after an undo is not supported (§3 invariant 6).
func (s *Session) Undo() (*ChangeRecord, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	for i := len(s.changes) - 1; i >= 0; i-- {
		rec := s.changes[i]
		if !rec.Applied {
			continue
		}
		if err := rec.undo(); err != nil {
			return nil, errors.Wrap(err, "session: undo")
		}
		rec.Applied = false
		logger.WithField("session", s.id).WithField("operation", rec.Operation).Debug("change undone")
		return rec, nil
	}
	return nil, ErrNothingToUndo
}

// Commit writes the working copy to disk at the session's board
// path, swaps the original document's root to the working root, and
// transitions the session to committed (§4.E).
func (s *Session) Commit() error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if err := s.working.Save(s.original.Path()); err != nil {
		return errors.Wrap(err, "session: commit")
	}
	s.original.SetRoot(s.working.Root())
	s.state = StateCommitted
	logger.WithField("session", s.id).Debug("session committed")
	return nil
}

// Rollback discards the working copy and transitions the session to
// rolled_back. The original document and on-disk file are left
// exactly as they were before Start (§8 "rollback neutrality").
func (s *Session) Rollback() error {
	if err := s.requireActive(); err != nil {
		return err
	}
	s.state = StateRolledBack
	logger.WithField("session", s.id).Debug("session rolled back")
	return nil
}
