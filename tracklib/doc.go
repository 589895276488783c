// This package provides a set of structs and functions which are used
// to look up geolocation of IP addresses and domain names.
//
// tracklib is a core of the iptracker project. The rest of the
// application is a set of providers, resolvers and wiring which shows
// how to use this library.
//
// Tracker is a main entity of the tracklib. It runs a lookup chain:
// user input is parsed into Query, domain names are resolved with
// DNS-over-HTTPS Resolver and resulting IP address is geolocated by
// Provider. Nothing is cached and nothing is retried: if any step fails,
// caller gets an error which is good enough to be shown to the user.
//
// Result of the lookup can be converted into View: a set of formatted
// strings and a map position which are rendered by a widget page.
// Tracker itself is http.Handler which serves both this page and JSON
// API.
package tracklib
