package providers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/9seconds/iptracker/tracklib"
)

type ipinfoResponse struct {
	IP       string `json:"ip"`
	Bogon    bool   `json:"bogon"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
	Error    *struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}

type ipinfoProvider struct {
	authToken string
	client    tracklib.HTTPClient
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) Lookup(ctx context.Context, ip net.IP) (tracklib.ProviderLookupResult, error) {
	result := tracklib.ProviderLookupResult{}
	url := "https://ipinfo.io/json"

	if ip != nil {
		url = "https://ipinfo.io/" + ip.String() + "/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	if i.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+i.authToken)
	}

	jsonResponse := ipinfoResponse{}

	statusCode, err := doJSONRequest(i.client, req, &jsonResponse)
	if err != nil {
		return result, err
	}

	switch {
	case jsonResponse.Error != nil:
		return result, fmt.Errorf("%w: %s (%s)",
			ErrProviderFailed, jsonResponse.Error.Title, jsonResponse.Error.Message)
	case jsonResponse.Bogon:
		return result, fmt.Errorf("%w: bogon address", tracklib.ErrReservedAddress)
	}

	if err := checkStatusCode(statusCode); err != nil {
		return result, err
	}

	lat, lng, err := parseIPInfoLoc(jsonResponse.Loc)
	if err != nil {
		return result, fmt.Errorf("cannot parse coordinates: %w", err)
	}

	result.IP = net.ParseIP(jsonResponse.IP)
	result.CountryCode = tracklib.Alpha2ToCountryCode(jsonResponse.Country)
	result.Region = jsonResponse.Region
	result.City = jsonResponse.City
	result.PostalCode = jsonResponse.Postal
	result.Latitude = lat
	result.Longitude = lng
	result.Timezone = jsonResponse.Timezone
	result.ISP = jsonResponse.Org

	return result, nil
}

// loc is "lat,lng".
func parseIPInfoLoc(loc string) (float64, float64, error) {
	if loc == "" {
		return 0, 0, nil
	}

	chunks := strings.SplitN(loc, ",", 2)
	if len(chunks) != 2 {
		return 0, 0, fmt.Errorf("incorrect format %q", loc)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(chunks[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("incorrect latitude: %w", err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(chunks[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("incorrect longitude: %w", err)
	}

	return lat, lng, nil
}

// NewIPInfo returns a provider for ipinfo.io. Auth token is optional:
// this service has a free tier.
func NewIPInfo(client tracklib.HTTPClient, parameters map[string]string) tracklib.Provider {
	return ipinfoProvider{
		authToken: parameters["auth_token"],
		client:    client,
	}
}
