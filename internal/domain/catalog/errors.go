package catalog

import "errors"

var (
	// ErrInvalidDescriptor reports a view definition missing required fields
	ErrInvalidDescriptor = errors.New("invalid view descriptor")
	// ErrUnsupportedFormat reports a definition file with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported definition format")
)
