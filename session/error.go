package session

import "github.com/pkg/errors"

// Sentinel errors for the mutation catalog (§4.F, §7). Callers use
// errors.Is to distinguish recovery paths; every error is returned
// before any partial mutation occurs.
var (
	ErrSessionNotActive   = errors.New("session not active")
	ErrReferenceNotFound  = errors.New("reference not found")
	ErrDuplicateReference = errors.New("duplicate reference")
	ErrLayerNotAllowed    = errors.New("layer not allowed")
	ErrInvalidPolygon     = errors.New("invalid polygon")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNotFound           = errors.New("not found")
	ErrDesignRuleKey      = errors.New("belongs in the design-rules file")
)
