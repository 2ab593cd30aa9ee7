package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(errBoom)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(err, errBoom) {
		t.Error("wrapped error should unwrap to cause")
	}
	if err.Error() != "boom" {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(errBoom) {
		t.Error("plain error should not be retryable")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		attempts  int
		failUntil int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 3, 0, true, 1, false},
		{"success after retry", 3, 2, true, 3, false},
		{"exhausted", 2, 5, true, 2, true},
		{"non retryable", 3, 5, false, 1, true},
		{"zero attempts means one", 0, 5, true, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failUntil {
					if tt.retryable {
						return Retryable(errBoom)
					}
					return errBoom
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error { return Retryable(errBoom) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDoClassifiesStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantErr   bool
		retryable bool
	}{
		{http.StatusOK, false, false},
		{http.StatusNoContent, false, false},
		{http.StatusNotFound, false, false},
		{http.StatusBadRequest, true, false},
		{http.StatusTooManyRequests, true, true},
		{http.StatusBadGateway, true, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/tree", nil)
			resp, err := Do(srv.Client(), req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var serr *StatusError
				if !errors.As(err, &serr) || serr.Status != tt.status {
					t.Errorf("err = %v, want StatusError %d", err, tt.status)
				}
				if IsRetryable(err) != tt.retryable {
					t.Errorf("retryable = %v, want %v", IsRetryable(err), tt.retryable)
				}
				return
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d", resp.StatusCode)
			}
		})
	}
}

func TestDoTransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	_, err := Do(nil, req)
	if err == nil || !IsRetryable(err) {
		t.Errorf("err = %v, want retryable transport error", err)
	}
}
