package resolvers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/miekg/dns"
)

type dnsJSONResponse struct {
	Status int  `json:"Status"`
	TC     bool `json:"TC"`
	Answer []struct {
		Name string `json:"name"`
		Type uint16 `json:"type"`
		TTL  int    `json:"TTL"`
		Data string `json:"data"`
	} `json:"Answer"`
}

type dnsJSONResolver struct {
	client     tracklib.HTTPClient
	serverName string
	serverURL  string
}

func (d dnsJSONResolver) Name() string {
	return NameDNSJSON + ":" + d.serverName
}

func (d dnsJSONResolver) Resolve(ctx context.Context, domain string) ([]net.IP, error) {
	return resolveAddresses(ctx, domain, d.query)
}

func (d dnsJSONResolver) query(ctx context.Context, domain string, qtype uint16) ([]net.IP, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.buildURL(domain, qtype), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/dns-json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	defer func() {
		io.Copy(ioutil.Discard, resp.Body) // nolint: errcheck
		resp.Body.Close()
	}()

	jsonResponse := dnsJSONResponse{}
	jsonDecoder := json.NewDecoder(bufio.NewReader(io.LimitReader(resp.Body, maxResponseSize)))

	if err := jsonDecoder.Decode(&jsonResponse); err != nil {
		return nil, fmt.Errorf("cannot parse a response: %w", err)
	}

	if err := checkRcode(jsonResponse.Status); err != nil {
		return nil, err
	}

	if jsonResponse.TC {
		return nil, ErrTruncated
	}

	rv := []net.IP{}

	for _, v := range jsonResponse.Answer {
		if v.Type != qtype {
			continue
		}

		if ip := net.ParseIP(v.Data); ip != nil {
			rv = append(rv, ip)
		}
	}

	return rv, nil
}

func (d dnsJSONResolver) buildURL(domain string, qtype uint16) string {
	u, _ := url.Parse(d.serverURL)
	query := u.Query()

	query.Set("name", domain)
	query.Set("type", dns.TypeToString[qtype])

	u.RawQuery = query.Encode()

	return u.String()
}

// NewDNSJSON returns a resolver which uses DoH JSON API. Server is
// either a known name (google, cloudflare, quad9) or URL of the
// endpoint.
func NewDNSJSON(client tracklib.HTTPClient, server string) (tracklib.Resolver, error) {
	name, endpoint, err := serverURL(server, knownJSONServers)
	if err != nil {
		return nil, err
	}

	return dnsJSONResolver{
		client:     client,
		serverName: name,
		serverURL:  endpoint,
	}, nil
}
