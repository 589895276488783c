package tracklib

import (
	"strconv"
	"strings"

	"github.com/pariz/gountries"
)

var (
	countryCodeQuery = gountries.New()

	// zero element means unknown country
	countryCodeMapCC2String = []string{""}
	countryCodeMapString2CC = map[string]CountryCode{"": 0}
)

// CountryCode is a compact ISO3166 code of the country. Zero value is
// an unknown country.
type CountryCode uint16

func (c CountryCode) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// String returns 2-letter ISO3166 code: US for USA, GB for UK.
func (c CountryCode) String() string {
	if int(c) >= len(countryCodeMapCC2String) {
		return ""
	}

	return countryCodeMapCC2String[int(c)]
}

func (c CountryCode) Known() bool {
	return c > 0 && int(c) < len(countryCodeMapCC2String)
}

// Details returns gountries data for the country.
func (c CountryCode) Details() gountries.Country {
	return countryCodeQuery.Countries[c.String()]
}

// CommonName returns a common english name of the country like
// "United Kingdom". Unknown countries have an empty name.
func (c CountryCode) CommonName() string {
	if !c.Known() {
		return ""
	}

	return c.Details().Name.Common
}

// NormalizeAlpha2Code uppercases 2-letter code and maps legacy or
// pseudo codes which some APIs still return: ZZ, EU and AP mean
// unknown, YU is CS, FX is FR and UK is GB.
func NormalizeAlpha2Code(alpha2 string) string {
	alpha2 = strings.ToUpper(strings.TrimSpace(alpha2))

	if len(alpha2) != 2 {
		return ""
	}

	switch alpha2 {
	case "ZZ", "AP", "EU", "XX":
		return ""
	case "YU":
		return "CS"
	case "FX":
		return "FR"
	case "UK":
		return "GB"
	default:
		return alpha2
	}
}

func Alpha2ToCountryCode(alpha2 string) CountryCode {
	return countryCodeMapString2CC[NormalizeAlpha2Code(alpha2)]
}

func Alpha3ToCountryCode(alpha3 string) CountryCode {
	alpha3 = strings.ToUpper(alpha3)

	return Alpha2ToCountryCode(countryCodeQuery.Alpha3ToAlpha2[alpha3])
}

func init() {
	for k := range countryCodeQuery.Countries {
		k = NormalizeAlpha2Code(k)

		if _, ok := countryCodeMapString2CC[k]; k == "" || ok {
			continue
		}

		countryCodeMapCC2String = append(countryCodeMapCC2String, k)
		countryCodeMapString2CC[k] = CountryCode(len(countryCodeMapCC2String) - 1)
	}
}
