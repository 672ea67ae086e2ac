package shm

import "errors"

var (
	// ErrInvalidBuffer is returned when a buffer region does not fit its pool
	// or has an inconsistent stride.
	ErrInvalidBuffer = errors.New("shm: invalid buffer geometry")

	// ErrUnsupportedFormat is returned for pixel formats other than
	// FormatARGB8888 and FormatXRGB8888.
	ErrUnsupportedFormat = errors.New("shm: unsupported pixel format")

	// ErrClosed is returned when using a closed storage or pool.
	ErrClosed = errors.New("shm: closed")
)
