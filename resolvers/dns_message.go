package resolvers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/miekg/dns"
)

type dnsMessageResolver struct {
	client     tracklib.HTTPClient
	serverName string
	serverURL  string
}

func (d dnsMessageResolver) Name() string {
	return NameDNSMessage + ":" + d.serverName
}

func (d dnsMessageResolver) Resolve(ctx context.Context, domain string) ([]net.IP, error) {
	return resolveAddresses(ctx, domain, d.query)
}

func (d dnsMessageResolver) query(ctx context.Context, domain string, qtype uint16) ([]net.IP, error) {
	dnsReq := &dns.Msg{}

	dnsReq.SetQuestion(dns.Fqdn(domain), qtype)

	// https://datatracker.ietf.org/doc/html/rfc8484#section-4.1
	dnsReq.Id = 0

	packed, err := dnsReq.Pack()
	if err != nil {
		return nil, fmt.Errorf("cannot pack a request: %w", err)
	}

	u, _ := url.Parse(d.serverURL)
	query := u.Query()

	query.Set("dns", base64.RawURLEncoding.EncodeToString(packed))

	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/dns-message")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	defer func() {
		io.Copy(ioutil.Discard, resp.Body) // nolint: errcheck
		resp.Body.Close()
	}()

	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("cannot read a response: %w", err)
	}

	dnsResp := &dns.Msg{}

	if err := dnsResp.Unpack(body); err != nil {
		return nil, fmt.Errorf("cannot unpack a response: %w", err)
	}

	if err := checkRcode(dnsResp.Rcode); err != nil {
		return nil, err
	}

	if dnsResp.Truncated {
		return nil, ErrTruncated
	}

	rv := []net.IP{}

	for _, answer := range dnsResp.Answer {
		switch record := answer.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				rv = append(rv, record.A)
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				rv = append(rv, record.AAAA)
			}
		}
	}

	return rv, nil
}

// NewDNSMessage returns a resolver which follows RFC8484: DNS messages
// in wire format are sent with GET requests.
func NewDNSMessage(client tracklib.HTTPClient, server string) (tracklib.Resolver, error) {
	name, endpoint, err := serverURL(server, knownMessageServers)
	if err != nil {
		return nil, err
	}

	return dnsMessageResolver{
		client:     client,
		serverName: name,
		serverURL:  endpoint,
	}, nil
}
