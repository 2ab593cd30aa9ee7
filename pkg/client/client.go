// Package client fetches family data from a backend over HTTP and
// implements view.Backend.
//
// The client makes a single attempt by default. A failed fetch surfaces as
// LOAD_FAILED so the viewer can show it; the user retries. [WithRetry]
// enables retries of transient failures for batch use such as the render
// command.
package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/httputil"
	"github.com/matzehuels/familytree/pkg/observability"
)

const defaultTimeout = 10 * time.Second

// Client talks to a backend exposing /api/tree and /api/person/{id}.
type Client struct {
	base     *url.URL
	http     *http.Client
	attempts int
	delay    time.Duration
	cache    cache.Cache
	keyer    cache.Keyer
	refresh  bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10 s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry retries transient failures up to attempts times, starting at
// delay and doubling.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts, c.delay = attempts, delay }
}

// WithCache caches person records. refresh skips reads but still writes.
func WithCache(ch cache.Cache, keyer cache.Keyer, refresh bool) Option {
	return func(c *Client) {
		c.cache, c.refresh = ch, refresh
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// New validates baseURL and returns a client.
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse backend url")
	}
	c := &Client{
		base:     u,
		http:     &http.Client{Timeout: defaultTimeout},
		attempts: 1,
		delay:    200 * time.Millisecond,
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.base.String() }

// Tree fetches the nested hierarchy. A null body, an empty body or 204
// yields (nil, nil).
func (c *Client) Tree(ctx context.Context) (*family.PersonRecord, error) {
	rec, found, err := c.get(ctx, "/api/tree")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "fetch tree")
	}
	if !found {
		return nil, errors.New(errors.ErrCodeLoadFailed, "fetch tree: endpoint not found at %s", c.base)
	}
	return rec, nil
}

// Person fetches one flat record. 404 is NOT_FOUND; null yields (nil, nil).
func (c *Client) Person(ctx context.Context, id family.ID) (*family.PersonRecord, error) {
	if err := errors.ValidatePersonID(id.String()); err != nil {
		return nil, err
	}

	key := c.keyer.PersonKey(c.base.String(), id.String())
	if !c.refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			if rec, err := family.Unmarshal(data); err == nil && rec != nil {
				observability.Cache().OnCacheHit(ctx, "person")
				return rec, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "person")
	}

	rec, found, err := c.get(ctx, "/api/person/"+url.PathEscape(id.String()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "fetch person %s", id)
	}
	if !found {
		return nil, errors.New(errors.ErrCodeNotFound, "person %q not found", id)
	}
	if rec != nil {
		if data, err := family.Marshal(rec); err == nil && c.cache.Set(ctx, key, data, cache.TTLPerson) == nil {
			observability.Cache().OnCacheSet(ctx, "person", len(data))
		}
	}
	return rec, nil
}

// get performs a GET with retry. found is false for 404.
func (c *Client) get(ctx context.Context, path string) (rec *family.PersonRecord, found bool, err error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	err = httputil.Retry(ctx, c.attempts, c.delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := httputil.Do(c.http, req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusNotFound:
			found = false
			return nil
		case http.StatusNoContent:
			rec, found = nil, true
			return nil
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return httputil.Retryable(err)
		}
		rec, err = family.Unmarshal(body)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return rec, found, err
}
