package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/9seconds/iptracker/tracklib"
)

type ipstackResponse struct {
	Success *bool `json:"success"`
	Error   struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
	IP         string  `json:"ip"`
	Country    string  `json:"country_code"`
	RegionName string  `json:"region_name"`
	City       string  `json:"city"`
	Zip        string  `json:"zip"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	TimeZone   struct {
		ID string `json:"id"`
	} `json:"time_zone"`
	Connection struct {
		ISP string `json:"isp"`
	} `json:"connection"`
}

type ipstackProvider struct {
	client     tracklib.HTTPClient
	httpScheme string
	authToken  string
}

func (i ipstackProvider) Name() string {
	return NameIPStack
}

func (i ipstackProvider) Lookup(ctx context.Context, ip net.IP) (tracklib.ProviderLookupResult, error) {
	result := tracklib.ProviderLookupResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.buildURL(ip), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	jsonResponse := ipstackResponse{}

	statusCode, err := doJSONRequest(i.client, req, &jsonResponse)
	if err != nil {
		return result, err
	}

	if jsonResponse.Success != nil && !*jsonResponse.Success {
		return result, fmt.Errorf(
			"%w: code=%d, type=%s, info=%s",
			ErrProviderFailed,
			jsonResponse.Error.Code,
			jsonResponse.Error.Type,
			jsonResponse.Error.Info)
	}

	if err := checkStatusCode(statusCode); err != nil {
		return result, err
	}

	result.IP = net.ParseIP(jsonResponse.IP)
	result.CountryCode = tracklib.Alpha2ToCountryCode(jsonResponse.Country)
	result.Region = jsonResponse.RegionName
	result.City = jsonResponse.City
	result.PostalCode = jsonResponse.Zip
	result.Latitude = jsonResponse.Latitude
	result.Longitude = jsonResponse.Longitude
	result.Timezone = jsonResponse.TimeZone.ID
	result.ISP = jsonResponse.Connection.ISP

	return result, nil
}

func (i ipstackProvider) buildURL(ip net.IP) string {
	getQuery := url.Values{}

	getQuery.Set("access_key", i.authToken)
	getQuery.Set("output", "json")
	getQuery.Set("language", "en")
	getQuery.Set("hostname", "0")
	getQuery.Set("security", "0")

	path := "check"
	if ip != nil {
		path = ip.String()
	}

	u := url.URL{
		Scheme:   i.httpScheme,
		Host:     "api.ipstack.com",
		Path:     path,
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

// NewIPStack returns a provider for ipstack.com. It requires an auth
// token. Free plan does not support https, so it has to be enabled
// with secure parameter.
func NewIPStack(client tracklib.HTTPClient, parameters map[string]string) (tracklib.Provider, error) {
	authToken := parameters["auth_token"]
	if authToken == "" {
		return nil, ErrAuthTokenIsRequired
	}

	scheme := "http"

	if boolParam(parameters["secure"]) {
		scheme = "https"
	}

	return ipstackProvider{
		client:     client,
		authToken:  authToken,
		httpScheme: scheme,
	}, nil
}

func boolParam(param string) bool {
	switch strings.ToLower(param) {
	case "1", "true", "enabled", "yes":
		return true
	default:
		return false
	}
}
