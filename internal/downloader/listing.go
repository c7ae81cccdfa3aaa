package downloader

import (
	"context"
	"io"
	"net/http"
)

// FetchListing downloads the HTML of a shared-folder page. It returns the body
// together with the response Content-Type. An empty body is ErrEmptyListing.
func (c *Client) FetchListing(ctx context.Context, listingURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch listing", URL: listingURL, Err: err}
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch listing", URL: listingURL, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, "", &NetworkError{Op: "fetch listing", URL: listingURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{Op: "fetch listing", URL: listingURL, Err: err}
	}
	if len(body) == 0 {
		return nil, "", ErrEmptyListing
	}

	c.log.Debugf("Fetched listing %s (%d bytes)", listingURL, len(body))
	return body, resp.Header.Get("Content-Type"), nil
}
