package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyListenAddress is returned when no listen address is configured.
	ErrEmptyListenAddress = errors.New("listen address must not be empty")

	// ErrInvalidBaseURL is returned when the public base URL is not absolute.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrInvalidTimeout is returned when the logo timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid logo timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to select the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidLogoPath is returned when the logo path does not start with "/".
	ErrInvalidLogoPath = errors.New("invalid logo path: must start with /")

	// ErrInvalidMaxConnections is returned when the connection cap is negative.
	ErrInvalidMaxConnections = errors.New("invalid max connections: must be non-negative (0 is unlimited)")

	// ErrInvalidIDPolicy is returned for an identifier policy other than mock or strict.
	ErrInvalidIDPolicy = errors.New("invalid id policy: must be mock or strict")

	// ErrInvalidShutdownTimeout is returned when the shutdown timeout is not positive.
	ErrInvalidShutdownTimeout = errors.New("invalid shutdown timeout: must be positive")

	// ErrInvalidConcurrency is returned when the generate concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")
)
