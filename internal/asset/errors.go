package asset

import "errors"

var (
	// ErrUnexpectedStatus is returned when the asset host answers with a
	// non-2xx status code. The code is included in the wrapped message.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is returned when the response body exceeds the
	// configured maximum size.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrInvalidProxyAddress is returned when the proxy address is not in
	// "host:port" form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrRelativeBaseURL is returned by ResolveURL when the base has no scheme or host.
	ErrRelativeBaseURL = errors.New("base URL is not absolute")

	// ErrEmptyURL is returned when Fetch is called without a URL.
	ErrEmptyURL = errors.New("empty asset URL")
)
