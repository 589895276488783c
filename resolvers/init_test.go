package resolvers_test

import (
	"net/http"
	"time"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

type ResolverTestSuite struct {
	suite.Suite

	http tracklib.HTTPClient
}

func (suite *ResolverTestSuite) SetupTest() {
	suite.http = tracklib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100)
}

type MockedResolverTestSuite struct {
	ResolverTestSuite
}

func (suite *MockedResolverTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedResolverTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedResolverTestSuite) TearDownTest() {
	httpmock.Reset()
}
