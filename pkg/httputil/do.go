package httputil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/familytree/pkg/observability"
)

// StatusError is returned by [Do] for responses that are neither 2xx nor
// 404 nor 204.
type StatusError struct {
	Method string
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
}

// Do sends req and reports it to the observability HTTP hooks. On success
// the caller owns resp.Body. 2xx, 204 and 404 responses are returned as is;
// other statuses are closed and returned as a [StatusError], wrapped in
// [RetryableError] for 5xx and 429. Transport errors are always retryable
// unless the request context is done.
func Do(client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode/100 == 2 || resp.StatusCode == http.StatusNotFound {
		return resp, nil
	}
	resp.Body.Close()
	serr := &StatusError{Method: req.Method, URL: req.URL.String(), Status: resp.StatusCode}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, Retryable(serr)
	}
	return nil, serr
}
