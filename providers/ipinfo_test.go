package providers_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/9seconds/iptracker/providers"
	"github.com/9seconds/iptracker/tracklib"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

type MockedIPInfoTestSuite struct {
	MockedProviderTestSuite

	prov tracklib.Provider
}

func (suite *MockedIPInfoTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.prov = providers.NewIPInfo(suite.http, map[string]string{
		"auth_token": "token",
	})
}

func (suite *MockedIPInfoTestSuite) TestName() {
	suite.Equal(providers.NameIPInfo, suite.prov.Name())
}

func (suite *MockedIPInfoTestSuite) TestLookupClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.prov.Lookup(ctx, net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupFailed() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113/json",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113/json",
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupBadLoc() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113/json",
		httpmock.NewStringResponder(http.StatusOK, `{"ip": "23.22.13.113", "loc": "north"}`))

	_, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedIPInfoTestSuite) TestLookupErrorPayload() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113/json",
		httpmock.NewStringResponder(http.StatusForbidden, `{
  "error": {"title": "Unknown token", "message": "Please ensure you've entered your token correctly."}
}`))

	_, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.True(errors.Is(err, providers.ErrProviderFailed))
	suite.Contains(err.Error(), "Unknown token")
}

func (suite *MockedIPInfoTestSuite) TestLookupErrorStatusWithoutPayload() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113/json",
		httpmock.NewStringResponder(http.StatusNotFound, `{}`))

	_, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.True(errors.Is(err, providers.ErrProviderFailed))
	suite.Contains(err.Error(), "404")
}

func (suite *MockedIPInfoTestSuite) TestLookupBogon() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/192.168.0.1/json",
		httpmock.NewStringResponder(http.StatusOK, `{"ip": "192.168.0.1", "bogon": true}`))

	_, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("192.168.0.1"))

	suite.True(errors.Is(err, tracklib.ErrReservedAddress))
}

func (suite *MockedIPInfoTestSuite) TestLookupOk() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/23.22.13.113/json",
		func(req *http.Request) (*http.Response, error) {
			suite.Equal("Bearer token", req.Header.Get("Authorization"))

			return httpmock.NewStringResponse(http.StatusOK, `{
  "ip": "23.22.13.113",
  "hostname": "ec2-23-22-13-113.compute-1.amazonaws.com",
  "city": "Virginia Beach",
  "region": "Virginia",
  "country": "US",
  "loc": "36.7957,-76.0126",
  "org": "AS14618 Amazon.com, Inc.",
  "postal": "23479",
  "timezone": "America/New_York"
}`), nil
		})

	result, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.Equal("US", result.CountryCode.String())
	suite.Equal("Virginia", result.Region)
	suite.Equal("Virginia Beach", result.City)
	suite.Equal("23479", result.PostalCode)
	suite.InDelta(36.7957, result.Latitude, 0.0001)
	suite.InDelta(-76.0126, result.Longitude, 0.0001)
	suite.Equal("America/New_York", result.Timezone)
	suite.Equal("AS14618 Amazon.com, Inc.", result.ISP)
}

func (suite *MockedIPInfoTestSuite) TestLookupSelf() {
	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/json",
		httpmock.NewStringResponder(http.StatusOK, `{
  "ip": "23.22.13.113",
  "city": "Virginia Beach",
  "country": "US",
  "loc": "36.7957,-76.0126"
}`))

	result, err := suite.prov.Lookup(context.Background(), nil)

	suite.NoError(err)
	suite.Equal("23.22.13.113", result.IP.String())
}

type IntegrationIPInfoTestSuite struct {
	ProviderTestSuite

	prov tracklib.Provider
}

func (suite *IntegrationIPInfoTestSuite) SetupTest() {
	suite.ProviderTestSuite.SetupTest()

	suite.prov = providers.NewIPInfo(suite.http, map[string]string{})
}

func (suite *IntegrationIPInfoTestSuite) TestLookup() {
	result, err := suite.prov.Lookup(context.Background(),
		net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.Equal("US", result.CountryCode.String())
}

func TestIPInfo(t *testing.T) {
	suite.Run(t, &MockedIPInfoTestSuite{})
}

func TestIntegrationIPInfo(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipped because of the short mode")
		return
	}

	suite.Run(t, &IntegrationIPInfoTestSuite{})
}
