package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/9seconds/iptracker/providers"
	"github.com/9seconds/iptracker/resolvers"
	"github.com/9seconds/iptracker/tracklib"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/spf13/afero"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeTracker(conf *config) (*tracklib.Tracker, error) {
	resolver, err := makeResolver(conf.Resolver)
	if err != nil {
		return nil, fmt.Errorf("cannot create a resolver: %w", err)
	}

	provider, err := makeProvider(conf.Provider)
	if err != nil {
		return nil, fmt.Errorf("cannot create a provider: %w", err)
	}

	return tracklib.NewTracker(tracklib.Opts{
		Resolver:              resolver,
		Provider:              provider,
		Logger:                newLogger(),
		ReservedNetworks:      conf.ReservedNetworks,
		TrustForwardedHeaders: conf.TrustForwardedHeaders,
	})
}

func makeResolver(conf configResolver) (tracklib.Resolver, error) {
	httpClient := makeNewHTTPClient(conf.HTTP)

	switch conf.GetFormat() {
	case resolverFormatJSON:
		return resolvers.NewDNSJSON(httpClient, conf.GetServer())
	case resolverFormatMessage:
		return resolvers.NewDNSMessage(httpClient, conf.GetServer())
	}

	return nil, fmt.Errorf("unsupported resolver format: %s", conf.GetFormat())
}

func makeProvider(conf configProvider) (tracklib.Provider, error) {
	httpClient := makeNewHTTPClient(conf.HTTP)
	params := conf.GetParameters()

	switch conf.GetName() {
	case providers.NameIPify:
		return providers.NewIPify(httpClient, params)
	case providers.NameIPAPI:
		return providers.NewIPAPI(httpClient, params), nil
	case providers.NameIPInfo:
		return providers.NewIPInfo(httpClient, params), nil
	case providers.NameIPStack:
		return providers.NewIPStack(httpClient, params)
	case providers.NameMaxmind:
		return providers.NewMaxmind(afero.NewReadOnlyFs(afero.NewOsFs()), params)
	}

	return nil, fmt.Errorf("unsupported provider name: %s", conf.GetName())
}

func makeNewHTTPClient(conf configHTTPClient) tracklib.HTTPClient {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = conf.GetTimeout()

	return tracklib.NewHTTPClient(httpClient,
		"iptracker/"+version,
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst())
}
