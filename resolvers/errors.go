package resolvers

import "errors"

var (
	// ErrUnknownServer is returned if server is neither a known name nor
	// a valid http(s) URL.
	ErrUnknownServer = errors.New("unknown DoH server")

	// ErrTruncated is returned if DNS response was truncated.
	ErrTruncated = errors.New("response is truncated")
)
