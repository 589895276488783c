// iptracker is a small widget which shows where an IP address or a
// domain name is located.
//
// User types an IP address or a domain name. Domain names are resolved
// with DNS-over-HTTPS, addresses are geolocated with a single provider
// and result is rendered as a page with a map marker or returned as
// JSON.
//
// Tool itself is organized into 3 logical parts:
//
// Tracklib
//
// tracklib is a main package of the application. It contains Tracker
// which runs a lookup chain, view state derivation (formatted location,
// UTC offset and map position) and HTTP handlers for the widget page
// and JSON API.
//
// Resolvers
//
// DNS-over-HTTPS clients. Both JSON API and RFC8484 wire format are
// supported. Google, Cloudflare and Quad9 are known by name, any other
// server can be set by URL.
//
// Providers
//
// Geolocation providers: ipify, ip-api, ipinfo, ipstack and a local MaxMind
// City database.
//
// A main package itself wires tracklib, resolvers and providers
// together. It has 2 commands: serve runs HTTP server, lookup prints
// JSON for a single query.
package main
