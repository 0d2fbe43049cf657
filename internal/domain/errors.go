package domain

import "errors"

// Domain errors
var (
	ErrEmptyDocument      = errors.New("staged document is empty")
	ErrBackendUnavailable = errors.New("extraction backend not available")
)
