package tracklib

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"
)

const maxPostBodySize = 64 * 1024

var handlePostRequestJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "query"
        ],
        "additionalProperties": false,
        "properties": {
            "query": {
                "type": "string",
                "maxLength": 2048
            }
        }
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

type handlePostRequest struct {
	Query string `json:"query"`
}

func (h httpHandler) handlePostLookup(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		h.sendError(w, nil, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	bodyBytes, err := ioutil.ReadAll(http.MaxBytesReader(w, req.Body, maxPostBodySize))

	req.Body.Close()

	if err != nil {
		h.sendError(w, err, "Cannot read request body", http.StatusBadRequest)

		return
	}

	errs, err := handlePostRequestJSONSchema.ValidateBytes(req.Context(), bodyBytes)
	if err != nil {
		h.sendError(w, err, "Cannot validate body", http.StatusBadRequest)

		return
	}

	if len(errs) > 0 {
		h.sendError(w, errs[0], "Invalid request body", http.StatusBadRequest)

		return
	}

	parsedRequest := &handlePostRequest{}
	if err := json.Unmarshal(bodyBytes, parsedRequest); err != nil {
		h.sendError(w, err, "Cannot parse request JSON", http.StatusBadRequest)

		return
	}

	if strings.TrimSpace(parsedRequest.Query) == "" {
		result, err := h.tracker.LookupSelf(req.Context(), remoteIP(req))
		h.sendLookup(w, result, err)

		return
	}

	result, err := h.tracker.Lookup(req.Context(), parsedRequest.Query)
	h.sendLookup(w, result, err)
}
