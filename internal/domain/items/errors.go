package items

import "errors"

var (
	// ErrNotFound indicates an unknown item id.
	ErrNotFound = errors.New("item not found")

	// ErrValidationFailed indicates a malformed request or an illegal state
	// transition; rejected before any mutation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrStorageUnavailable indicates the selected blob backend failed the
	// call. Fatal to that ingestion; there is no fallback to another backend.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrBlobNotFound indicates the referenced blob is missing.
	ErrBlobNotFound = errors.New("blob not found")
)
