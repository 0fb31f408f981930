package scan

import "errors"

var (
	// ErrInvalidConfig is wrapped by every configuration error reported
	// before a scan starts.
	ErrInvalidConfig = errors.New("invalid scan config")

	// ErrCancelled is returned when a scan stops because its context was
	// cancelled. No partial result accompanies it.
	ErrCancelled = errors.New("scan cancelled")
)
