// Package reachcheck performs the synchronous reachability probe that
// gates book creation. The target is an opaque third-party URL; the
// only contract is that it answers with an HTTP status.
package reachcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Transport timeouts for the probe client.
const (
	dialTimeout           = 5 * time.Second
	tlsHandshakeTimeout   = 5 * time.Second
	responseHeaderTimeout = 10 * time.Second
)

// ErrUnreachable is returned when the target does not answer with a
// success status. Transport failures wrap it.
var ErrUnreachable = errors.New("external resource unreachable")

// Checker probes a single configured URL.
type Checker struct {
	client *http.Client
	url    string
}

// New creates a Checker for the given URL with a hard client timeout.
// Redirects are followed; only the final status matters.
func New(url string, timeout time.Duration) *Checker {
	return &Checker{
		url: url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   dialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   tlsHandshakeTimeout,
				ResponseHeaderTimeout: responseHeaderTimeout,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// URL returns the configured target.
func (c *Checker) URL() string {
	return c.url
}

// Check issues a single GET to the target. Any non-2xx status or
// transport failure is a hard rejection; there are no retries.
func (c *Checker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnreachable, err)
	}
	req.Header.Set("User-Agent", "Bookery-ReachCheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	return nil
}
