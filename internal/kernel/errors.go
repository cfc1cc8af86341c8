package kernel

import "github.com/pkg/errors"

// Common errors. Construction failures wrap one of these so callers can
// classify a failed descriptor with errors.Is while still seeing the
// offending node or path in the message.
var (
	ErrInvalidDescriptor  = errors.New("invalid kernel descriptor")
	ErrKernelFileNotFound = errors.New("kernel file not found")
	ErrBinaryMismatch     = errors.New("kernel binary mismatch")
)
