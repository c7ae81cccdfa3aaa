package downloader

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeUnavailable means the server did not declare a content length.
	ErrSizeUnavailable = errors.New("content length not available")

	// ErrEmptyListing means the listing page was fetched but had no content.
	ErrEmptyListing = errors.New("listing is empty")

	// ErrInsufficientSpace means the download directory cannot hold the file.
	ErrInsufficientSpace = errors.New("not enough free space")
)

// NetworkError is returned when a remote resource cannot be reached or answers
// with a non-success status.
type NetworkError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: unexpected HTTP status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DownloadError is returned when streaming a file to disk fails. The partial
// file is always removed before it is returned.
type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.Name, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
