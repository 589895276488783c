package main

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

const basicAuthRealm = `Basic realm="iptracker", charset="UTF-8"`

type basicAuthMiddleware struct {
	handler  http.Handler
	user     [sha256.Size]byte
	password [sha256.Size]byte
}

func (b *basicAuthMiddleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, pass, ok := req.BasicAuth()

	// digests have the same length so comparison does not leak it
	userHash := sha256.Sum256([]byte(user))
	passHash := sha256.Sum256([]byte(pass))
	userMatch := subtle.ConstantTimeCompare(b.user[:], userHash[:])
	passMatch := subtle.ConstantTimeCompare(b.password[:], passHash[:])

	if ok && userMatch+passMatch == 2 {
		b.handler.ServeHTTP(w, req)

		return
	}

	w.Header().Set("WWW-Authenticate", basicAuthRealm)
	http.Error(w, "Authentication is required", http.StatusUnauthorized)
}

func newBasicAuthMiddleware(handler http.Handler, conf configBasicAuth) http.Handler {
	return &basicAuthMiddleware{
		handler:  handler,
		user:     sha256.Sum256([]byte(conf.User)),
		password: sha256.Sum256([]byte(conf.Password)),
	}
}
