package tracklib

import "net"

// ProviderLookupResult is a raw response of the provider. Timezone
// is kept as provider has returned it: it can be either UTC offset like
// "-07:00" or IANA name like "Europe/Berlin".
type ProviderLookupResult struct {
	// IP is filled by providers only if they were asked to detect an
	// address of the caller.
	IP net.IP

	CountryCode CountryCode
	Region      string
	City        string
	PostalCode  string
	Latitude    float64
	Longitude   float64
	Timezone    string
	ISP         string
}

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Result is an outcome of the lookup chain: user query, resolved
// address and provider data.
type Result struct {
	Query    string `json:"query"`
	Domain   string `json:"domain,omitempty"`
	IP       net.IP `json:"ip"`
	Provider string `json:"provider"`
	Country  struct {
		Alpha2Code   string `json:"alpha2_code"`
		Alpha3Code   string `json:"alpha3_code"`
		CommonName   string `json:"common_name"`
		OfficialName string `json:"official_name"`
	} `json:"country"`
	Region      string      `json:"region"`
	City        string      `json:"city"`
	PostalCode  string      `json:"postal_code"`
	Coordinates Coordinates `json:"coordinates"`
	Timezone    string      `json:"timezone"`
	ISP         string      `json:"isp"`
}

func (r *Result) OK() bool {
	return r.IP != nil && r.Provider != ""
}

func newResult(query Query, ip net.IP, provider string, res ProviderLookupResult) Result {
	rv := Result{
		Query:      query.String(),
		Domain:     query.Domain,
		IP:         ip,
		Provider:   provider,
		Region:     res.Region,
		City:       res.City,
		PostalCode: res.PostalCode,
		Coordinates: Coordinates{
			Latitude:  res.Latitude,
			Longitude: res.Longitude,
		},
		Timezone: res.Timezone,
		ISP:      res.ISP,
	}

	if res.CountryCode.Known() {
		details := res.CountryCode.Details()
		rv.Country.Alpha2Code = details.Alpha2
		rv.Country.Alpha3Code = details.Alpha3
		rv.Country.CommonName = res.CountryCode.CommonName()
		rv.Country.OfficialName = details.Name.Official
	}

	return rv
}
