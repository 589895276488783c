package tracklib_test

import (
	"context"
	"net"

	"github.com/9seconds/iptracker/tracklib"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, ip net.IP) (tracklib.ProviderLookupResult, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(tracklib.ProviderLookupResult), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, domain string) ([]net.IP, error) {
	args := m.Called(ctx, domain)

	if v := args.Get(0); v != nil {
		return v.([]net.IP), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ResolverMock) Name() string {
	return m.Called().String(0)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip net.IP, name string, err error) {
	m.Called(ip, name, err)
}

func (m *LoggerMock) ResolveError(domain, name string, err error) {
	m.Called(domain, name, err)
}
