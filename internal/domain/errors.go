package domain

import "github.com/pkg/errors"

var (
	// ErrUpstreamUnavailable means the reading store could not be reached or did not answer in time.
	ErrUpstreamUnavailable = errors.New("reading store unavailable")

	// ErrMalformedInput means a stored document violates the reading contract.
	ErrMalformedInput = errors.New("malformed reading")
)
