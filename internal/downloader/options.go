package downloader

import "time"

const (
	DefaultChunkSize      = 8 * 1024
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 60 * time.Second
	DefaultRetryDelay     = time.Second

	maxRedirects = 10
	maxBackoff   = 30 * time.Second
)

// ProgressFunc receives the completed percentage of a download after every
// chunk, or -1 while the total size is unknown.
type ProgressFunc func(percent int)

// Options contains all client options
type Options struct {
	ChunkSize      int
	RateLimit      int64 // bytes per second, 0 = unlimited
	Proxy          string
	Retries        int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	return o
}
