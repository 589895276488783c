package main

import (
	"strings"
	"testing"

	"github.com/9seconds/iptracker/providers"
	"github.com/stretchr/testify/assert"
)

func TestMakeTracker(t *testing.T) {
	conf, err := parseConfig(strings.NewReader(`
		[resolver]
		format = "message"
		server = "google"

		[provider]
		name = "ipinfo"`))
	assert.Nil(t, err)

	tracker, err := makeTracker(conf)
	assert.Nil(t, err)

	stats := tracker.UsageStats()
	assert.Len(t, stats, 2)
	assert.Equal(t, "dns_message:google", stats[0].Name)
	assert.Equal(t, providers.NameIPInfo, stats[1].Name)
}

func TestMakeTrackerBadProvider(t *testing.T) {
	conf, err := parseConfig(strings.NewReader(`
		[provider]
		name = "ipify"`))
	assert.Nil(t, err)

	_, err = makeTracker(conf)
	assert.ErrorIs(t, err, providers.ErrAuthTokenIsRequired)
}

func TestMakeTrackerBadResolver(t *testing.T) {
	conf, err := parseConfig(strings.NewReader(`
		[resolver]
		server = "opendns"`))
	assert.Nil(t, err)

	_, err = makeTracker(conf)
	assert.NotNil(t, err)
}

func TestMakeTrackerNoDatabase(t *testing.T) {
	conf, err := parseConfig(strings.NewReader(`
		[provider]
		name = "maxmind"

			[provider.parameters]
			path = "/nonexisting/GeoLite2-City.mmdb"`))
	assert.Nil(t, err)

	_, err = makeTracker(conf)
	assert.NotNil(t, err)
}
