package tracklib

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBodySize = 4 * 1024

// HTTPStatusError is returned by HTTPClient if netloc has responded
// with 4xx or 5xx status code. Body keeps a beginning of the response:
// APIs usually explain what went wrong there.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (h *HTTPStatusError) Error() string {
	return fmt.Sprintf("netloc has responded with %s", h.Status)
}

type httpClient struct {
	userAgent   string
	client      *http.Client
	rateLimiter *rate.Limiter
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	if err := h.rateLimiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter has rejected a request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		if resp != nil {
			flushResponse(resp.Body)
		}

		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

		flushResponse(resp.Body)

		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		}
	}

	return resp, nil
}

func flushResponse(body io.ReadCloser) {
	io.Copy(ioutil.Discard, body) // nolint: errcheck
	body.Close()
}

// NewHTTPClient prepares a new HTTP client for providers and resolvers:
// it sets a user agent, rejects responses with 4xx/5xx status codes and
// throttles outgoing requests.
//
// Please see https://pkg.go.dev/golang.org/x/time/rate to get a meaning
// of rate limiter parameters.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimiterInterval time.Duration,
	rateLimitBurst int) HTTPClient {
	return httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimiterInterval), rateLimitBurst),
	}
}
