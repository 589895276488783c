package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/9seconds/iptracker/tracklib"
)

const ipifyEndpoint = "https://geo.ipify.org/api/v2/country,city"

type ipifyResponse struct {
	IP       string `json:"ip"`
	Location struct {
		Country    string  `json:"country"`
		Region     string  `json:"region"`
		City       string  `json:"city"`
		Lat        float64 `json:"lat"`
		Lng        float64 `json:"lng"`
		PostalCode string  `json:"postalCode"`
		Timezone   string  `json:"timezone"`
	} `json:"location"`
	ISP string `json:"isp"`

	Code     int    `json:"code"`
	Messages string `json:"messages"`
}

type ipifyProvider struct {
	apiKey string
	client tracklib.HTTPClient
}

func (i ipifyProvider) Name() string {
	return NameIPify
}

func (i ipifyProvider) Lookup(ctx context.Context, ip net.IP) (tracklib.ProviderLookupResult, error) {
	result := tracklib.ProviderLookupResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.buildURL(ip), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	jsonResponse := ipifyResponse{}

	statusCode, err := doJSONRequest(i.client, req, &jsonResponse)
	if err != nil {
		return result, err
	}

	if jsonResponse.Code != 0 || jsonResponse.Messages != "" {
		return result, fmt.Errorf("%w: %d %s",
			ErrProviderFailed, jsonResponse.Code, jsonResponse.Messages)
	}

	if err := checkStatusCode(statusCode); err != nil {
		return result, err
	}

	result.IP = net.ParseIP(jsonResponse.IP)
	result.CountryCode = tracklib.Alpha2ToCountryCode(jsonResponse.Location.Country)
	result.Region = jsonResponse.Location.Region
	result.City = jsonResponse.Location.City
	result.PostalCode = jsonResponse.Location.PostalCode
	result.Latitude = jsonResponse.Location.Lat
	result.Longitude = jsonResponse.Location.Lng
	result.Timezone = jsonResponse.Location.Timezone
	result.ISP = jsonResponse.ISP

	return result, nil
}

func (i ipifyProvider) buildURL(ip net.IP) string {
	values := url.Values{}

	values.Set("apiKey", i.apiKey)

	if ip != nil {
		values.Set("ipAddress", ip.String())
	}

	return ipifyEndpoint + "?" + values.Encode()
}

// NewIPify returns a provider for geo.ipify.org. It requires an api
// key.
func NewIPify(client tracklib.HTTPClient, parameters map[string]string) (tracklib.Provider, error) {
	apiKey := parameters["api_key"]
	if apiKey == "" {
		return nil, ErrAuthTokenIsRequired
	}

	return ipifyProvider{
		apiKey: apiKey,
		client: client,
	}, nil
}
