package configuration

import "errors"

var (
	// ErrMissingValue indicates an option is unset and has no documented default.
	ErrMissingValue = errors.New("missing configuration value")

	ErrInvalidInteger    = errors.New("invalid integer")
	ErrInvalidFloat      = errors.New("invalid float")
	ErrInvalidBoolean    = errors.New("invalid boolean")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrInvalidMemorySize = errors.New("invalid memory size")
)
