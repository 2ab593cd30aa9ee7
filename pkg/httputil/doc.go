// Package httputil holds the HTTP plumbing shared by the backend client:
// instrumented request execution and retry with exponential backoff.
//
// [Do] sends a request, reports it to the registered
// observability HTTP hooks and classifies the outcome. Transport failures,
// 5xx responses and 429 responses come back wrapped in [RetryableError] so
// that [Retry] knows to try again:
//
//	err := httputil.Retry(ctx, 3, 200*time.Millisecond, func() error {
//	    resp, err := httputil.Do(client, req)
//	    if err != nil {
//	        return err
//	    }
//	    defer resp.Body.Close()
//	    return decode(resp.Body)
//	})
//
// A single attempt is the default for the viewer: a failed load is surfaced
// to the user, who retries by reloading.
package httputil
