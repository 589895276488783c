package providers

import (
	"context"
	"fmt"
	"net"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/oschwald/maxminddb-golang"
	"github.com/spf13/afero"
)

type maxmindLookupResult struct {
	City struct {
		Names struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"city"`
	Subdivisions []struct {
		Names struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
	Country struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
		TimeZone  string  `maxminddb:"time_zone"`
	} `maxminddb:"location"`
	Postal struct {
		Code string `maxminddb:"code"`
	} `maxminddb:"postal"`
	Traits struct {
		ISP string `maxminddb:"isp"`
	} `maxminddb:"traits"`
}

type maxmindProvider struct {
	dbReader *maxminddb.Reader
}

func (m *maxmindProvider) Name() string {
	return NameMaxmind
}

func (m *maxmindProvider) Lookup(ctx context.Context, ip net.IP) (tracklib.ProviderLookupResult, error) {
	rv := tracklib.ProviderLookupResult{}

	if ip == nil {
		return rv, tracklib.ErrSelfLookupIsNotSupported
	}

	record := maxmindLookupResult{}

	_, ok, err := m.dbReader.LookupNetwork(ip, &record)
	if err != nil {
		return rv, fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	if !ok {
		return rv, ErrUnknownAddress
	}

	rv.CountryCode = tracklib.Alpha2ToCountryCode(record.Country.IsoCode)
	rv.City = record.City.Names.En
	rv.PostalCode = record.Postal.Code
	rv.Latitude = record.Location.Latitude
	rv.Longitude = record.Location.Longitude
	rv.Timezone = record.Location.TimeZone
	rv.ISP = record.Traits.ISP

	if len(record.Subdivisions) > 0 {
		rv.Region = record.Subdivisions[0].Names.En
	}

	return rv, nil
}

// NewMaxmind opens a City database from the given filesystem. Database
// is read into memory once, nothing is downloaded or updated.
func NewMaxmind(fs afero.Fs, parameters map[string]string) (tracklib.Provider, error) {
	path := parameters["path"]
	if path == "" {
		return nil, ErrDatabasePathIsRequired
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read a database file: %w", err)
	}

	reader, err := maxminddb.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a reader of maxminddb: %w", err)
	}

	return &maxmindProvider{
		dbReader: reader,
	}, nil
}
