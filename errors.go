package sentex

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrResourceNotFound indicates the source has no resource under the tool's name.
	ErrResourceNotFound = errors.New("sentex: resource not found")

	// ErrInvalidModel indicates the resource exists but does not decode as a model for the tool.
	ErrInvalidModel = errors.New("sentex: invalid model format")

	// ErrClosed is returned by accessors after Close.
	ErrClosed = errors.New("sentex: registry closed")
)
