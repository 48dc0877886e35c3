package model

import "errors"

var (
	// ErrProfileNotFound is returned by ProfileSource.Lookup when no profile
	// exists for the requested band identifier.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUnknownBandID is returned by ResolveBandIDStrict when the raw input
	// does not name a band of the fixture table.
	ErrUnknownBandID = errors.New("unknown band identifier")
)
