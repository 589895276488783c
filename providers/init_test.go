package providers_test

import (
	"net/http"
	"time"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite

	http tracklib.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = tracklib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100)
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}
