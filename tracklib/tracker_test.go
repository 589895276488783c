package tracklib_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TrackerTestSuite struct {
	suite.Suite

	t            *tracklib.Tracker
	providerMock *ProviderMock
	resolverMock *ResolverMock
	loggerMock   *LoggerMock
}

func (suite *TrackerTestSuite) SetupTest() {
	suite.providerMock = &ProviderMock{}
	suite.resolverMock = &ResolverMock{}
	suite.loggerMock = &LoggerMock{}

	suite.providerMock.On("Name").Return("providerMock").Maybe()
	suite.resolverMock.On("Name").Return("resolverMock").Maybe()

	tracker, err := tracklib.NewTracker(tracklib.Opts{
		Resolver:         suite.resolverMock,
		Provider:         suite.providerMock,
		Logger:           suite.loggerMock,
		ReservedNetworks: []string{"198.51.0.0/16"},
	})

	suite.Require().NoError(err)

	suite.t = tracker
}

func (suite *TrackerTestSuite) TearDownTest() {
	suite.providerMock.AssertExpectations(suite.T())
	suite.resolverMock.AssertExpectations(suite.T())
	suite.loggerMock.AssertExpectations(suite.T())
}

func (suite *TrackerTestSuite) providerResult() tracklib.ProviderLookupResult {
	return tracklib.ProviderLookupResult{
		CountryCode: tracklib.Alpha2ToCountryCode("US"),
		Region:      "California",
		City:        "Mountain View",
		PostalCode:  "94043",
		Latitude:    37.4,
		Longitude:   -122.08,
		Timezone:    "-07:00",
		ISP:         "Google LLC",
	}
}

func (suite *TrackerTestSuite) TestLookupIP() {
	ip := net.ParseIP("8.8.8.8").To4()

	suite.providerMock.On("Lookup", mock.Anything, ip).Return(suite.providerResult(), nil).Once()

	res, err := suite.t.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.True(res.OK())
	suite.Equal("8.8.8.8", res.Query)
	suite.Empty(res.Domain)
	suite.Equal("8.8.8.8", res.IP.String())
	suite.Equal("providerMock", res.Provider)
	suite.Equal("US", res.Country.Alpha2Code)
	suite.Equal("USA", res.Country.Alpha3Code)
	suite.NotEmpty(res.Country.CommonName)
	suite.Equal("Mountain View", res.City)
	suite.Equal("California", res.Region)
	suite.Equal("94043", res.PostalCode)
	suite.InDelta(37.4, res.Coordinates.Latitude, 1e-9)
	suite.InDelta(-122.08, res.Coordinates.Longitude, 1e-9)
	suite.Equal("-07:00", res.Timezone)
	suite.Equal("Google LLC", res.ISP)
}

func (suite *TrackerTestSuite) TestLookupDomain() {
	ips := []net.IP{
		net.ParseIP("2606:2800:220:1:248:1893:25c8:1946"),
		net.ParseIP("93.184.216.34"),
	}
	ip := net.ParseIP("93.184.216.34").To4()

	suite.resolverMock.On("Resolve", mock.Anything, "example.com").Return(ips, nil).Once()
	suite.providerMock.On("Lookup", mock.Anything, ip).Return(suite.providerResult(), nil).Once()

	res, err := suite.t.Lookup(context.Background(), "https://Example.com/index.html")

	suite.NoError(err)
	suite.Equal("example.com", res.Query)
	suite.Equal("example.com", res.Domain)
	suite.Equal("93.184.216.34", res.IP.String())
}

func (suite *TrackerTestSuite) TestLookupDomainOnlyIPv6() {
	ip := net.ParseIP("2606:2800:220:1:248:1893:25c8:1946")

	suite.resolverMock.On("Resolve", mock.Anything, "example.com").Return([]net.IP{ip}, nil).Once()
	suite.providerMock.On("Lookup", mock.Anything, ip).Return(suite.providerResult(), nil).Once()

	res, err := suite.t.Lookup(context.Background(), "example.com")

	suite.NoError(err)
	suite.Equal(ip.String(), res.IP.String())
}

func (suite *TrackerTestSuite) TestLookupDomainNoAddress() {
	suite.resolverMock.On("Resolve", mock.Anything, "example.com").Return(nil, nil).Once()

	res, err := suite.t.Lookup(context.Background(), "example.com")

	suite.True(errors.Is(err, tracklib.ErrNoAddress))
	suite.False(errors.Is(err, tracklib.ErrUpstream))
	suite.False(res.OK())
	suite.Equal("example.com", res.Domain)
}

func (suite *TrackerTestSuite) TestLookupDomainResolverFailed() {
	suite.resolverMock.On("Resolve", mock.Anything, "example.com").Return(nil, io.EOF).Once()
	suite.loggerMock.On("ResolveError", "example.com", "resolverMock", io.EOF).Once()

	_, err := suite.t.Lookup(context.Background(), "example.com")

	suite.True(errors.Is(err, tracklib.ErrUpstream))
	suite.True(errors.Is(err, io.EOF))
}

func (suite *TrackerTestSuite) TestLookupDomainReserved() {
	suite.resolverMock.On("Resolve", mock.Anything, "localhost.example.com").
		Return([]net.IP{net.ParseIP("127.0.0.1")}, nil).
		Once()

	_, err := suite.t.Lookup(context.Background(), "localhost.example.com")

	suite.True(errors.Is(err, tracklib.ErrReservedAddress))
}

func (suite *TrackerTestSuite) TestLookupReserved() {
	for _, v := range []string{"192.168.1.1", "::1", "198.51.10.10"} {
		_, err := suite.t.Lookup(context.Background(), v)

		suite.True(errors.Is(err, tracklib.ErrReservedAddress), v)
	}
}

func (suite *TrackerTestSuite) TestLookupInvalid() {
	res, err := suite.t.Lookup(context.Background(), "not a domain")

	suite.True(errors.Is(err, tracklib.ErrInvalidQuery))
	suite.Equal("not a domain", res.Query)

	_, err = suite.t.Lookup(context.Background(), "")

	suite.True(errors.Is(err, tracklib.ErrEmptyQuery))
}

func (suite *TrackerTestSuite) TestLookupProviderFailed() {
	ip := net.ParseIP("8.8.8.8").To4()

	suite.providerMock.On("Lookup", mock.Anything, ip).
		Return(tracklib.ProviderLookupResult{}, io.EOF).
		Once()
	suite.loggerMock.On("LookupError", ip, "providerMock", io.EOF).Once()

	res, err := suite.t.LookupIP(context.Background(), ip)

	suite.True(errors.Is(err, tracklib.ErrUpstream))
	suite.True(errors.Is(err, io.EOF))
	suite.False(res.OK())
}

func (suite *TrackerTestSuite) TestLookupSelfPublic() {
	ip := net.ParseIP("8.8.8.8").To4()

	suite.providerMock.On("Lookup", mock.Anything, ip).Return(suite.providerResult(), nil).Once()

	res, err := suite.t.LookupSelf(context.Background(), ip)

	suite.NoError(err)
	suite.Equal("8.8.8.8", res.IP.String())
}

func (suite *TrackerTestSuite) TestLookupSelfReserved() {
	result := suite.providerResult()
	result.IP = net.ParseIP("1.2.3.4")

	suite.providerMock.On("Lookup", mock.Anything, net.IP(nil)).Return(result, nil).Once()

	res, err := suite.t.LookupSelf(context.Background(), net.ParseIP("127.0.0.1"))

	suite.NoError(err)
	suite.Equal("1.2.3.4", res.IP.String())
	suite.Equal("1.2.3.4", res.Query)
	suite.Equal("Mountain View", res.City)
}

func (suite *TrackerTestSuite) TestLookupSelfUnknown() {
	result := suite.providerResult()
	result.IP = net.ParseIP("1.2.3.4")

	suite.providerMock.On("Lookup", mock.Anything, net.IP(nil)).Return(result, nil).Once()

	res, err := suite.t.LookupSelf(context.Background(), nil)

	suite.NoError(err)
	suite.Equal("1.2.3.4", res.IP.String())
}

func (suite *TrackerTestSuite) TestLookupSelfNotSupported() {
	suite.providerMock.On("Lookup", mock.Anything, net.IP(nil)).
		Return(suite.providerResult(), nil).
		Once()
	suite.loggerMock.On("LookupError", net.IP(nil), "providerMock", mock.Anything).Once()

	_, err := suite.t.LookupSelf(context.Background(), nil)

	suite.True(errors.Is(err, tracklib.ErrSelfLookupIsNotSupported))
	suite.True(errors.Is(err, tracklib.ErrUpstream))
}

func (suite *TrackerTestSuite) TestReservedNetworks() {
	networks := suite.t.ReservedNetworks()

	suite.Contains(networks, "198.51.0.0/16")
	suite.Contains(networks, "127.0.0.0/8")
}

func (suite *TrackerTestSuite) TestUsageStats() {
	ip := net.ParseIP("8.8.8.8").To4()

	suite.providerMock.On("Lookup", mock.Anything, ip).Return(suite.providerResult(), nil).Once()
	suite.resolverMock.On("Resolve", mock.Anything, "example.com").Return(nil, nil).Once()

	suite.t.Lookup(context.Background(), "8.8.8.8")     // nolint: errcheck
	suite.t.Lookup(context.Background(), "example.com") // nolint: errcheck

	data, err := json.Marshal(suite.t.UsageStats())

	suite.NoError(err)

	stats := []usageStatsJSON{}

	suite.NoError(json.Unmarshal(data, &stats))
	suite.Len(stats, 2)
	suite.Equal("resolverMock", stats[0].Name)
	suite.Equal("resolver", stats[0].Kind)
	suite.EqualValues(1, stats[0].FailureCount)
	suite.Equal("providerMock", stats[1].Name)
	suite.Equal("provider", stats[1].Kind)
	suite.EqualValues(1, stats[1].SuccessCount)
}

func (suite *TrackerTestSuite) TestMetrics() {
	suite.t.Lookup(context.Background(), "10.0.0.1") // nolint: errcheck

	resp := httptest.NewRecorder()
	suite.t.MetricsHandler().ServeHTTP(resp, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := ioutil.ReadAll(resp.Body)

	suite.Equal(http.StatusOK, resp.Code)
	suite.Contains(string(body), `iptracker_lookups_total{status="reserved"} 1`)
	suite.Contains(string(body), "iptracker_lookup_duration_seconds")
}

func TestTracker(t *testing.T) {
	suite.Run(t, &TrackerTestSuite{})
}

func TestNewTrackerValidation(t *testing.T) {
	provider := &ProviderMock{}
	resolver := &ResolverMock{}
	logger := &LoggerMock{}

	provider.On("Name").Return("p").Maybe()
	resolver.On("Name").Return("r").Maybe()

	testData := []tracklib.Opts{
		{Provider: provider, Logger: logger},
		{Resolver: resolver, Logger: logger},
		{Resolver: resolver, Provider: provider},
		{Resolver: resolver, Provider: provider, Logger: logger, ReservedNetworks: []string{"qq"}},
	}

	for _, v := range testData {
		_, err := tracklib.NewTracker(v)
		if err == nil {
			t.Errorf("expected an error for %#v", v)
		}
	}
}
