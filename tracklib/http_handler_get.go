package tracklib

import (
	"net/http"
	"strings"
)

func (h httpHandler) handleGetLookup(w http.ResponseWriter, req *http.Request) {
	query := strings.TrimSpace(req.URL.Query().Get("q"))

	if query == "" {
		result, err := h.tracker.LookupSelf(req.Context(), remoteIP(req))
		h.sendLookup(w, result, err)

		return
	}

	result, err := h.tracker.Lookup(req.Context(), query)
	h.sendLookup(w, result, err)
}

func (h httpHandler) handleGetStats(w http.ResponseWriter, req *http.Request) {
	response := struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.tracker.UsageStats(),
	}

	h.encodeJSON(w, http.StatusOK, response)
}
