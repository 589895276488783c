package tracklib

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const (
	usageKindResolver = "resolver"
	usageKindProvider = "provider"
)

// ErrSelfLookupIsNotSupported is returned by providers which cannot
// detect an address of the caller on their own.
var ErrSelfLookupIsNotSupported = errors.New("provider cannot detect caller address")

// Opts is a set of parameters for NewTracker. Resolver, Provider and
// Logger are mandatory.
//
// TrustForwardedHeaders makes HTTP handler take visitor address from
// X-Forwarded-For and X-Real-IP headers. Enable it only behind a
// reverse proxy which sets them: otherwise anyone can put a reserved
// address there and make the provider geolocate this server.
type Opts struct {
	Resolver              Resolver
	Provider              Provider
	Logger                Logger
	ReservedNetworks      []string
	TrustForwardedHeaders bool
}

// Tracker runs a lookup chain: user query is parsed, domain names are
// resolved into IP addresses with Resolver and addresses are
// geolocated with Provider. Each lookup is a sequence of single HTTP
// calls: nothing is cached and nothing is retried.
type Tracker struct {
	resolver      Resolver
	provider      Provider
	logger        Logger
	reserved      *ReservedNetworks
	resolverStats *UsageStats
	providerStats *UsageStats
	metrics       *metrics
	handler       http.Handler
}

func (t *Tracker) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	t.handler.ServeHTTP(w, req)
}

// MetricsHandler serves prometheus metrics of this instance.
func (t *Tracker) MetricsHandler() http.Handler {
	return t.metrics.Handler()
}

// ReservedNetworks returns networks which are never sent to the
// provider.
func (t *Tracker) ReservedNetworks() []string {
	return t.reserved.Networks()
}

func (t *Tracker) UsageStats() []*UsageStats {
	return []*UsageStats{t.resolverStats, t.providerStats}
}

// Lookup geolocates whatever user has typed: IP address or domain name.
func (t *Tracker) Lookup(ctx context.Context, raw string) (Result, error) {
	started := time.Now()

	query, err := ParseQuery(raw)
	if err != nil {
		t.metrics.observeLookup(err, started)

		return Result{Query: raw}, err
	}

	rv, err := t.lookup(ctx, query)

	t.metrics.observeLookup(err, started)

	return rv, err
}

// LookupIP geolocates already known IP address.
func (t *Tracker) LookupIP(ctx context.Context, ip net.IP) (Result, error) {
	started := time.Now()
	rv, err := t.lookup(ctx, Query{IP: ip})

	t.metrics.observeLookup(err, started)

	return rv, err
}

// LookupSelf geolocates a visitor. If visitor address is unknown or
// reserved (for example, service runs on localhost), provider is
// asked to detect the address on its own: it is going to be an
// address this service is visible from.
func (t *Tracker) LookupSelf(ctx context.Context, ip net.IP) (Result, error) {
	if ip != nil && !t.reserved.Contains(ip) {
		return t.LookupIP(ctx, ip)
	}

	started := time.Now()
	res, err := t.geolocate(ctx, nil)

	t.metrics.observeLookup(err, started)

	if err != nil {
		return Result{}, err
	}

	query := Query{IP: res.IP}

	return newResult(query, res.IP, t.provider.Name(), res), nil
}

func (t *Tracker) lookup(ctx context.Context, query Query) (Result, error) {
	rv := Result{
		Query:  query.String(),
		Domain: query.Domain,
	}
	ip := query.IP

	if query.IsDomain() {
		resolved, err := t.resolve(ctx, query.Domain)
		if err != nil {
			return rv, err
		}

		ip = resolved
	}

	if t.reserved.Contains(ip) {
		return rv, fmt.Errorf("%w: %s", ErrReservedAddress, ip)
	}

	res, err := t.geolocate(ctx, ip)
	if err != nil {
		return rv, err
	}

	return newResult(query, ip, t.provider.Name(), res), nil
}

func (t *Tracker) resolve(ctx context.Context, domain string) (net.IP, error) {
	ips, err := t.resolver.Resolve(ctx, domain)
	if err == nil && len(ips) == 0 {
		err = ErrNoAddress
	}

	t.resolverStats.Used(err)
	t.metrics.observeUpstream(usageKindResolver, t.resolver.Name(), err)

	switch {
	case errors.Is(err, ErrNoAddress):
		return nil, fmt.Errorf("cannot resolve %s: %w", domain, err)
	case err != nil:
		t.logger.ResolveError(domain, t.resolver.Name(), err)

		return nil, fmt.Errorf("%w: cannot resolve %s: %w", ErrUpstream, domain, err)
	}

	return pickAddress(ips), nil
}

func (t *Tracker) geolocate(ctx context.Context, ip net.IP) (ProviderLookupResult, error) {
	res, err := t.provider.Lookup(ctx, ip)
	if err == nil && ip == nil && res.IP == nil {
		err = ErrSelfLookupIsNotSupported
	}

	t.providerStats.Used(err)
	t.metrics.observeUpstream(usageKindProvider, t.provider.Name(), err)

	if err != nil {
		t.logger.LookupError(ip, t.provider.Name(), err)

		return res, fmt.Errorf("%w: cannot geolocate: %w", ErrUpstream, err)
	}

	if ip != nil {
		res.IP = ip
	}

	return res, nil
}

// IPv4 is preferred: it is more likely that providers know something
// about it.
func pickAddress(ips []net.IP) net.IP {
	for _, v := range ips {
		if ip4 := v.To4(); ip4 != nil {
			return ip4
		}
	}

	return ips[0]
}

func NewTracker(opts Opts) (*Tracker, error) {
	switch {
	case opts.Resolver == nil:
		return nil, errors.New("resolver is not defined")
	case opts.Provider == nil:
		return nil, errors.New("provider is not defined")
	case opts.Logger == nil:
		return nil, errors.New("logger is not defined")
	}

	reserved, err := NewReservedNetworks(opts.ReservedNetworks)
	if err != nil {
		return nil, fmt.Errorf("cannot build reserved networks: %w", err)
	}

	rv := &Tracker{
		resolver: opts.Resolver,
		provider: opts.Provider,
		logger:   opts.Logger,
		reserved: reserved,
		resolverStats: &UsageStats{
			Name: opts.Resolver.Name(),
			Kind: usageKindResolver,
		},
		providerStats: &UsageStats{
			Name: opts.Provider.Name(),
			Kind: usageKindProvider,
		},
		metrics: newMetrics(),
	}
	rv.handler = newHTTPHandler(rv, opts.TrustForwardedHeaders)

	return rv, nil
}
