package sexp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel causes. Use errors.Is against these, or errors.As against
// *ParseError to also recover the position.
var (
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnexpectedClose    = errors.New("unexpected )")
	ErrTruncatedList      = errors.New("truncated list")
	ErrEmptyInput         = errors.New("empty input")
)

// Position is a 1-based line/column into the source text.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// ParseError reports a parse failure with its position in the source.
type ParseError struct {
	Pos   Position
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %s", e.Pos, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func parseErrorAt(pos Position, cause error) *ParseError {
	return &ParseError{Pos: pos, Cause: cause}
}
