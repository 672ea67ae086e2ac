// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import "errors"

var (
	// ErrNoBackendAvailable is returned when no host backends are registered
	// or available on the current system.
	ErrNoBackendAvailable = errors.New("host: no backend available")

	// ErrCapabilityUnavailable is returned when the host lacks a capability
	// the client needs, such as shared memory.
	ErrCapabilityUnavailable = errors.New("host: capability unavailable")

	// ErrClosed is returned by operations on a closed host.
	ErrClosed = errors.New("host: closed")

	// ErrUnknownSurface is returned for surfaces the host did not create.
	ErrUnknownSurface = errors.New("host: unknown surface")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "host: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "host: backend unavailable: " + e.Name
}
