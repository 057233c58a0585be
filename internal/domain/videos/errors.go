package videos

import "errors"

// ErrVideoNotFound indicates the video id does not resolve at the source.
var ErrVideoNotFound = errors.New("video not found")
