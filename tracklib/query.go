package tracklib

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/miekg/dns"
)

// Query is a parsed user input. Either IP or Domain is set, never
// both.
type Query struct {
	IP     net.IP
	Domain string
}

func (q Query) IsDomain() bool {
	return q.IP == nil && q.Domain != ""
}

func (q Query) String() string {
	if q.IP != nil {
		return q.IP.String()
	}

	return q.Domain
}

// ParseQuery accepts whatever user has typed into a search box: an IP
// address, a domain name, a host:port pair or even a full URL.
func ParseQuery(raw string) (Query, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Query{}, ErrEmptyQuery
	}

	if ip := parseIP(raw); ip != nil {
		return Query{IP: ip}, nil
	}

	host := extractHost(raw)

	if ip := parseIP(host); ip != nil {
		return Query{IP: ip}, nil
	}

	domain := strings.TrimSuffix(strings.ToLower(host), ".")

	if !strings.Contains(domain, ".") {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidQuery, raw)
	}

	if _, ok := dns.IsDomainName(domain); !ok {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidQuery, raw)
	}

	labels := dns.SplitDomainName(domain)

	for _, label := range labels {
		if !isHostnameLabel(label) {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidQuery, raw)
		}
	}

	// 999.1.1.1 is a broken address, not a domain
	if strings.Trim(labels[len(labels)-1], "0123456789") == "" {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidQuery, raw)
	}

	return Query{Domain: domain}, nil
}

func parseIP(value string) net.IP {
	value = strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")

	ip := net.ParseIP(value)
	if ip == nil {
		return nil
	}

	if ip4 := ip.To4(); ip4 != nil {
		return ip4
	}

	return ip
}

func extractHost(raw string) string {
	if strings.Contains(raw, "://") {
		if parsed, err := url.Parse(raw); err == nil && parsed.Host != "" {
			return parsed.Hostname()
		}
	}

	if idx := strings.IndexAny(raw, "/?#"); idx >= 0 {
		raw = raw[:idx]
	}

	if host, _, err := net.SplitHostPort(raw); err == nil {
		return host
	}

	return raw
}

func isHostnameLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}

	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}

	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-', r == '_':
		default:
			return false
		}
	}

	return true
}
