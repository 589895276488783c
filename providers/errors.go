package providers

import "errors"

var (
	// ErrAuthTokenIsRequired is returned if you are trying to initialize
	// a provider which requires some token to work.
	ErrAuthTokenIsRequired = errors.New("auth token is required")

	// ErrDatabasePathIsRequired is returned if offline provider has no
	// path to the database file.
	ErrDatabasePathIsRequired = errors.New("path to the database is required")

	// ErrProviderFailed is returned if provider has responded with an
	// error payload.
	ErrProviderFailed = errors.New("provider has responded with error")

	// ErrUnknownAddress is returned if offline database has no record
	// for the address.
	ErrUnknownAddress = errors.New("address is not in the database")
)
