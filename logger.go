package main

import (
	"net"

	log "github.com/sirupsen/logrus"

	"github.com/9seconds/iptracker/tracklib"
)

type logger struct{}

func (l logger) LookupError(ip net.IP, name string, err error) {
	log.WithFields(log.Fields{
		"provider": name,
		"ip":       ip,
		"err":      err,
	}).Warn("Cannot geolocate IP address.")
}

func (l logger) ResolveError(domain string, name string, err error) {
	log.WithFields(log.Fields{
		"resolver": name,
		"domain":   domain,
		"err":      err,
	}).Warn("Cannot resolve domain name.")
}

func newLogger() tracklib.Logger {
	return logger{}
}
