package main

import (
	"io"
	"io/ioutil"
	"net"
	"strings"
	"time"

	"github.com/9seconds/iptracker/providers"
	"github.com/9seconds/iptracker/resolvers"
	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
)

const (
	DefaultListen            = "127.0.0.1:8000"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultRateLimitInterval = 100 * time.Millisecond
	DefaultRateLimitBurst    = 10
	DefaultResolverFormat    = resolverFormatJSON
	DefaultResolverServer    = resolvers.ServerCloudflare
	DefaultProviderName      = providers.NameIPAPI
)

const (
	resolverFormatJSON    = "json"
	resolverFormatMessage = "message"
)

var validProviderNames = map[string]bool{
	providers.NameIPify:   true,
	providers.NameIPAPI:   true,
	providers.NameIPInfo:  true,
	providers.NameIPStack: true,
	providers.NameMaxmind: true,
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))

	return
}

type config struct {
	Listen                string          `toml:"listen"`
	ShutdownTimeout       duration        `toml:"shutdown_timeout"`
	TrustForwardedHeaders bool            `toml:"trust_forwarded_headers"`
	ReservedNetworks      []string        `toml:"reserved_networks"`
	BasicAuth             configBasicAuth `toml:"basic_auth"`
	Resolver              configResolver  `toml:"resolver"`
	Provider              configProvider  `toml:"provider"`
}

func (c *config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}

	return c.Listen
}

func (c *config) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeout.Duration == 0 {
		return DefaultShutdownTimeout
	}

	return c.ShutdownTimeout.Duration
}

type configBasicAuth struct {
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (c configBasicAuth) Enabled() bool {
	return c.User != "" || c.Password != ""
}

type configHTTPClient struct {
	Timeout           duration `toml:"timeout"`
	RateLimitInterval duration `toml:"rate_limit_interval"`
	RateLimitBurst    uint     `toml:"rate_limit_burst"`
}

func (c configHTTPClient) GetTimeout() time.Duration {
	if c.Timeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.Timeout.Duration
}

func (c configHTTPClient) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configHTTPClient) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

type configResolver struct {
	Format string           `toml:"format"`
	Server string           `toml:"server"`
	HTTP   configHTTPClient `toml:"http"`
}

func (c configResolver) GetFormat() string {
	if c.Format == "" {
		return DefaultResolverFormat
	}

	return strings.ToLower(c.Format)
}

func (c configResolver) GetServer() string {
	if c.Server == "" {
		return DefaultResolverServer
	}

	return c.Server
}

type configProvider struct {
	Name       string            `toml:"name"`
	Parameters map[string]string `toml:"parameters"`
	HTTP       configHTTPClient  `toml:"http"`
}

func (c configProvider) GetName() string {
	if c.Name == "" {
		return DefaultProviderName
	}

	return strings.ToLower(c.Name)
}

func (c configProvider) GetParameters() map[string]string {
	if c.Parameters == nil {
		return map[string]string{}
	}

	return c.Parameters
}

func parseConfig(file io.Reader) (*config, error) {
	conf := &config{}

	buf, err := ioutil.ReadAll(file)
	if err != nil {
		return nil, errors.Annotate(err, "Cannot read config file")
	}

	meta, err := toml.Decode(string(buf), conf)
	if err != nil {
		return nil, errors.Annotate(err, "Cannot parse config file")
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("Unknown config keys %v", undecoded)
	}

	if err := validateConfig(conf); err != nil {
		return nil, errors.Annotate(err, "Invalid value")
	}

	return conf, nil
}

func validateConfig(conf *config) error {
	if _, _, err := net.SplitHostPort(conf.GetListen()); err != nil {
		return errors.Annotatef(err, "Incorrect host:port for listen %s", conf.GetListen())
	}

	if conf.BasicAuth.Enabled() && (conf.BasicAuth.User == "" || conf.BasicAuth.Password == "") {
		return errors.New("Both user and password are required for basic auth")
	}

	for _, v := range conf.ReservedNetworks {
		if _, _, err := net.ParseCIDR(v); err != nil {
			return errors.Annotatef(err, "Incorrect reserved network %s", v)
		}
	}

	switch conf.Resolver.GetFormat() {
	case resolverFormatJSON, resolverFormatMessage:
	default:
		return errors.Errorf("Unknown resolver format %s", conf.Resolver.Format)
	}

	if !validProviderNames[conf.Provider.GetName()] {
		return errors.Errorf("Unknown provider %s", conf.Provider.Name)
	}

	return nil
}
