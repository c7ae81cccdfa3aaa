// Package downloader fetches listing pages, probes file sizes and streams
// files to disk over HTTP.
package downloader

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client performs all remote operations. It is safe to reuse across downloads.
type Client struct {
	client     *http.Client
	chunkSize  int
	limiter    *rate.Limiter
	retries    int
	retryDelay time.Duration
	log        logrus.FieldLogger
}

func NewClient(opts Options, log logrus.FieldLogger) *Client {
	opts = opts.withDefaults()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
	}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			log.WithError(err).Warnf("ignoring invalid proxy %q", opts.Proxy)
		}
	}

	// No overall client timeout: bodies are streamed for as long as they keep coming.
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	c := &Client{
		client:     client,
		chunkSize:  opts.ChunkSize,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		log:        log,
	}
	if opts.RateLimit > 0 {
		// WaitN fails for n > burst, so a burst must hold at least one chunk
		burst := int(opts.RateLimit)
		if burst < opts.ChunkSize {
			burst = opts.ChunkSize
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// do sends req, retrying connection failures with exponential backoff
// (1s, 2s, 4s, ... capped at 30s). Only body-less requests may be retried.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay << uint(attempt-1)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			c.log.Debugf("Connection to %s failed, retrying in %v (attempt %d/%d)", req.URL.Host, backoff, attempt, c.retries)

			select {
			case <-time.After(backoff):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		resp, err := c.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil || !isConnectionError(err) {
			break
		}
	}
	return nil, lastErr
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection timed out") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "EOF")
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
