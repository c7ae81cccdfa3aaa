package downloader

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Probe returns the size in bytes the server declares for link without
// downloading it. It sends a HEAD request and falls back to a one-byte range
// request when HEAD is refused or carries no length.
func (c *Client) Probe(ctx context.Context, link string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return 0, &NetworkError{Op: "probe", URL: link, Err: err}
	}

	resp, err := c.do(req)
	if err != nil {
		return 0, &NetworkError{Op: "probe", URL: link, Err: err}
	}
	resp.Body.Close()

	if isSuccess(resp.StatusCode) && resp.ContentLength >= 0 {
		return resp.ContentLength, nil
	}
	c.log.Debugf("HEAD %s returned %d without a length, trying a range request", link, resp.StatusCode)

	return c.probeRange(ctx, link)
}

func (c *Client) probeRange(ctx context.Context, link string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return 0, &NetworkError{Op: "probe", URL: link, Err: err}
	}
	req.Header.Set("Range", "bytes=0-0")

	resp, err := c.do(req)
	if err != nil {
		return 0, &NetworkError{Op: "probe", URL: link, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPartialContent:
		// Content-Range: bytes 0-0/1234567
		if total, ok := parseContentRangeTotal(resp.Header.Get("Content-Range")); ok {
			return total, nil
		}
	case isSuccess(resp.StatusCode):
		if resp.ContentLength >= 0 {
			return resp.ContentLength, nil
		}
	default:
		return 0, &NetworkError{Op: "probe", URL: link, Status: resp.StatusCode}
	}
	return 0, ErrSizeUnavailable
}

func parseContentRangeTotal(header string) (int64, bool) {
	_, total, found := strings.Cut(header, "/")
	if !found {
		return 0, false
	}
	size, err := strconv.ParseInt(strings.TrimSpace(total), 10, 64)
	if err != nil || size < 0 {
		return 0, false
	}
	return size, true
}
