package main

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/go-chi/chi/middleware"
)

type accessLogMiddleware struct {
	handler http.Handler
}

func (a *accessLogMiddleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	started := time.Now()
	wrapped := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

	a.handler.ServeHTTP(wrapped, req)

	log.WithFields(log.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"remote":   req.RemoteAddr,
		"status":   wrapped.Status(),
		"bytes":    wrapped.BytesWritten(),
		"duration": time.Since(started),
	}).Info("Request has been processed.")
}
