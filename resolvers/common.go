package resolvers

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/miekg/dns"
)

const maxResponseSize = 64 * 1024

type queryFunc func(ctx context.Context, domain string, qtype uint16) ([]net.IP, error)

// resolveAddresses asks for A records and falls back to AAAA only if
// domain has no IPv4 addresses at all.
func resolveAddresses(ctx context.Context, domain string, query queryFunc) ([]net.IP, error) {
	ips, err := query(ctx, domain, dns.TypeA)
	if err != nil {
		return nil, err
	}

	if len(ips) > 0 {
		return ips, nil
	}

	ips, err = query(ctx, domain, dns.TypeAAAA)
	if err != nil {
		return nil, err
	}

	if len(ips) == 0 {
		return nil, tracklib.ErrNoAddress
	}

	return ips, nil
}

func checkRcode(rcode int) error {
	switch rcode {
	case dns.RcodeSuccess:
		return nil
	case dns.RcodeNameError:
		return fmt.Errorf("domain does not exist: %w", tracklib.ErrNoAddress)
	}

	name, ok := dns.RcodeToString[rcode]
	if !ok {
		name = fmt.Sprintf("RCODE%d", rcode)
	}

	return fmt.Errorf("server has responded with %s", name)
}

func serverURL(server string, knownServers map[string]string) (string, string, error) {
	server = strings.TrimSpace(server)

	if v, ok := knownServers[strings.ToLower(server)]; ok {
		return strings.ToLower(server), v, nil
	}

	parsed, err := url.Parse(server)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnknownServer, err)
	}

	if (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownServer, server)
	}

	return parsed.Host, parsed.String(), nil
}
