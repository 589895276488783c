package providers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"

	"github.com/9seconds/iptracker/tracklib"
)

const maxResponseSize = 1024 * 1024

func flushResponse(resp io.ReadCloser) {
	io.Copy(ioutil.Discard, resp) // nolint: errcheck
	resp.Close()
}

// doJSONRequest decodes a response into target and returns its status
// code. APIs report errors with 4xx responses and JSON payloads, so
// such bodies are decoded as well. Callers have to check the payload
// and then the status code with checkStatusCode.
func doJSONRequest(client tracklib.HTTPClient, req *http.Request, target interface{}) (int, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var statusErr *tracklib.HTTPStatusError

		if errors.As(err, &statusErr) && json.Unmarshal(statusErr.Body, target) == nil {
			return statusErr.StatusCode, nil
		}

		return 0, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	jsonDecoder := json.NewDecoder(bufio.NewReader(io.LimitReader(resp.Body, maxResponseSize)))

	if err := jsonDecoder.Decode(target); err != nil {
		return 0, fmt.Errorf("cannot parse a response: %w", err)
	}

	return resp.StatusCode, nil
}

func checkStatusCode(statusCode int) error {
	if statusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: unexpected status code %d", ErrProviderFailed, statusCode)
	}

	return nil
}

// ipString returns an empty string for self lookups.
func ipString(ip net.IP) string {
	if ip == nil {
		return ""
	}

	return ip.String()
}
