package taxonomy

import "errors"

// ErrNotFound indicates an unknown pillar or topic id.
var ErrNotFound = errors.New("taxonomy: not found")
