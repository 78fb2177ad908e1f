package route

import "github.com/pkg/errors"

// ErrNoPath is returned when the open set empties, or the start/goal
// cell is out of bounds or blocked, before the goal is reached. An
// iteration-limit failure (§4.H) also satisfies errors.Is(err,
// ErrNoPath): it is reported as a no-path outcome with a distinguishing
// message, not a separate sentinel.
var ErrNoPath = errors.New("no path")
