package httpclient

import (
	"net/http"
	"time"
)

// HTTPClient is the subset of *http.Client used by the hand-rolled API clients.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewDefaultHTTPClient returns a client whose requests are aborted after timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
