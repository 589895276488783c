package tracklib

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

type httpHandler struct {
	tracker *Tracker
}

type lookupResponse struct {
	Result Result `json:"result"`
	View   View   `json:"view"`
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	h.encodeJSON(w, e.StatusCode(), e)
}

func (h httpHandler) sendLookup(w http.ResponseWriter, result Result, err error) {
	if err != nil {
		h.sendError(w, err, "Cannot lookup given query", ErrorStatusCode(err))

		return
	}

	h.encodeJSON(w, http.StatusOK, lookupResponse{
		Result: result,
		View:   NewView(result),
	})
}

func (h httpHandler) handleMethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	h.sendError(w, nil, "This HTTP method is not allowed", http.StatusMethodNotAllowed)
}

func (h httpHandler) handleNotFound(w http.ResponseWriter, req *http.Request) {
	h.sendError(w, nil, "Unknown path", http.StatusNotFound)
}

// remoteIP works both with host:port pairs and with bare addresses
// which are set by RealIP middleware.
func remoteIP(req *http.Request) net.IP {
	host := req.RemoteAddr

	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	return parseIP(strings.TrimSpace(host))
}

func newHTTPHandler(tracker *Tracker, trustForwardedHeaders bool) http.Handler {
	handler := httpHandler{
		tracker: tracker,
	}
	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)

	if trustForwardedHeaders {
		router.Use(middleware.RealIP)
	}

	router.Use(middleware.Recoverer)

	router.NotFound(handler.handleNotFound)
	router.MethodNotAllowed(handler.handleMethodNotAllowed)

	router.Get("/", handler.handlePage)
	router.Get("/api/lookup", handler.handleGetLookup)
	router.Post("/api/lookup", handler.handlePostLookup)
	router.Get("/api/stats", handler.handleGetStats)
	router.Method(http.MethodGet, "/metrics", tracker.MetricsHandler())

	return router
}
