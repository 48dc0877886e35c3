package server

import "errors"

// ErrMissingGenerator is returned by New when no report generator is given.
var ErrMissingGenerator = errors.New("report generator is required")
