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

const (
	ipapiFreeEndpoint = "http://ip-api.com/json/"
	ipapiProEndpoint  = "https://pro.ip-api.com/json/"
	ipapiFields       = "status,message,countryCode,regionName,city,zip,lat,lon,timezone,isp,query"
)

type ipapiResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Query       string  `json:"query"`
}

type ipapiProvider struct {
	apiKey string
	client tracklib.HTTPClient
}

func (i ipapiProvider) Name() string {
	return NameIPAPI
}

func (i ipapiProvider) Lookup(ctx context.Context, ip net.IP) (tracklib.ProviderLookupResult, error) {
	result := tracklib.ProviderLookupResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.buildURL(ip), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	jsonResponse := ipapiResponse{}

	statusCode, err := doJSONRequest(i.client, req, &jsonResponse)
	if err != nil {
		return result, err
	}

	if jsonResponse.Status != "success" {
		// private range, reserved range
		if strings.HasSuffix(jsonResponse.Message, "range") {
			return result, fmt.Errorf("%w: %s", tracklib.ErrReservedAddress, jsonResponse.Message)
		}

		return result, fmt.Errorf("%w: %s", ErrProviderFailed, jsonResponse.Message)
	}

	if err := checkStatusCode(statusCode); err != nil {
		return result, err
	}

	result.IP = net.ParseIP(jsonResponse.Query)
	result.CountryCode = tracklib.Alpha2ToCountryCode(jsonResponse.CountryCode)
	result.Region = jsonResponse.RegionName
	result.City = jsonResponse.City
	result.PostalCode = jsonResponse.Zip
	result.Latitude = jsonResponse.Lat
	result.Longitude = jsonResponse.Lon
	result.Timezone = jsonResponse.Timezone
	result.ISP = jsonResponse.ISP

	return result, nil
}

func (i ipapiProvider) buildURL(ip net.IP) string {
	values := url.Values{}
	endpoint := ipapiFreeEndpoint

	values.Set("fields", ipapiFields)

	if i.apiKey != "" {
		endpoint = ipapiProEndpoint
		values.Set("key", i.apiKey)
	}

	return endpoint + ipString(ip) + "?" + values.Encode()
}

// NewIPAPI returns a provider for ip-api.com. Free endpoint is used
// if api key is not set.
func NewIPAPI(client tracklib.HTTPClient, parameters map[string]string) tracklib.Provider {
	return ipapiProvider{
		apiKey: parameters["api_key"],
		client: client,
	}
}
