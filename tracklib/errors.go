package tracklib

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrEmptyQuery is returned if user has submitted nothing.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInvalidQuery is returned if query is neither an IP address nor
	// a domain name.
	ErrInvalidQuery = errors.New("query is not a valid IP address or domain name")

	// ErrReservedAddress is returned for private, loopback and other
	// addresses which cannot be geolocated.
	ErrReservedAddress = errors.New("address belongs to a reserved range")

	// ErrNoAddress is returned by resolvers if domain has no A or AAAA
	// records.
	ErrNoAddress = errors.New("domain has no addresses")

	// ErrUpstream marks all failures of remote APIs.
	ErrUpstream = errors.New("upstream has failed")
)

type jsonHTTPError struct {
	Error struct {
		Message string `json:"message"`
		Context string `json:"context"`
	} `json:"error"`
}

type httpError struct {
	message    string
	err        error
	statusCode int
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) Err() string {
	if err := errors.Unwrap(h); err != nil {
		return err.Error()
	}

	return ""
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

func (h *httpError) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}

	value := jsonHTTPError{}
	value.Error.Message = h.Message()
	value.Error.Context = h.Err()

	return json.Marshal(&value)
}

// ErrorStatusCode maps lookup errors to HTTP status codes.
func ErrorStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrReservedAddress):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoAddress):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
