package tracklib

import (
	"context"
	"net"
	"net/http"
)

// Provider geolocates a single IP address. Usually it is a client of
// some public HTTP API but it can also be a local database.
type Provider interface {
	Name() string
	Lookup(context.Context, net.IP) (ProviderLookupResult, error)
}

// Resolver converts a domain name into a list of IP addresses. It is
// expected to delegate this job to some public DNS-over-HTTPS endpoint.
type Resolver interface {
	Name() string
	Resolve(context.Context, string) ([]net.IP, error)
}

// HTTPClient is an interface which is used by providers and resolvers
// to access remote APIs. Please use NewHTTPClient to build it.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Logger interface {
	LookupError(ip net.IP, provider string, err error)
	ResolveError(domain string, resolver string, err error)
}
