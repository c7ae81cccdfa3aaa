package downloader

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(opts Options) *Client {
	logger, _ := test.NewNullLogger()
	return NewClient(opts, logger)
}

func payload(size int) []byte {
	return bytes.Repeat([]byte("zinc"), size/4+1)[:size]
}

func assertNoPartials(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, partialPrefix+"*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files left behind")
}

func TestDownloadKnownSize(t *testing.T) {
	data := payload(100_000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}))
	defer server.Close()

	dir := t.TempDir()
	client := newTestClient(Options{})

	var reports []int
	err := client.Download(context.Background(), server.URL+"/file.bin?dl=1", dir, "file.bin", int64(len(data)), func(p int) {
		reports = append(reports, p)
	})
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1], "progress went backwards: %v", reports)
	}
	assert.Equal(t, 100, reports[len(reports)-1])
	assert.GreaterOrEqual(t, len(reports), len(data)/DefaultChunkSize, "expected a report per chunk")

	got, err := os.ReadFile(filepath.Join(dir, "file.bin"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assertNoPartials(t, dir)
}

func TestDownloadUnknownSize(t *testing.T) {
	data := payload(20_000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// flushing before the body forces a chunked response without Content-Length
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		w.Write(data)
	}))
	defer server.Close()

	dir := t.TempDir()
	client := newTestClient(Options{})

	var reports []int
	err := client.Download(context.Background(), server.URL, dir, "stream.bin", -1, func(p int) {
		reports = append(reports, p)
	})
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	for _, p := range reports[:len(reports)-1] {
		assert.Equal(t, -1, p)
	}
	assert.Equal(t, 100, reports[len(reports)-1])

	info, err := os.Stat(filepath.Join(dir, "stream.bin"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())
}

func TestDownloadMidStreamFailure(t *testing.T) {
	data := payload(64 * 1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data[:len(data)/2])
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
	defer server.Close()

	dir := t.TempDir()
	client := newTestClient(Options{})

	err := client.Download(context.Background(), server.URL, dir, "broken.bin", int64(len(data)), nil)
	require.Error(t, err)

	var dlErr *DownloadError
	require.True(t, errors.As(err, &dlErr), "expected DownloadError, got %T: %v", err, err)
	assert.Equal(t, "broken.bin", dlErr.Name)

	_, statErr := os.Stat(filepath.Join(dir, "broken.bin"))
	assert.True(t, os.IsNotExist(statErr), "partial destination file must not exist")
	assertNoPartials(t, dir)
}

func TestDownloadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	err := newTestClient(Options{}).Download(context.Background(), server.URL, dir, "missing.bin", 10, nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "expected NetworkError, got %T: %v", err, err)
	assert.Equal(t, http.StatusNotFound, netErr.Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadInsufficientSpace(t *testing.T) {
	orig := diskUsage
	diskUsage = func(path string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Path: path, Free: 100}, nil
	}
	defer func() { diskUsage = orig }()

	data := payload(4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()

	dir := t.TempDir()
	err := newTestClient(Options{}).Download(context.Background(), server.URL, dir, "big.bin", int64(len(data)), nil)

	var dlErr *DownloadError
	require.True(t, errors.As(err, &dlErr))
	assert.ErrorIs(t, err, ErrInsufficientSpace)
	assertNoPartials(t, dir)
}

func TestDownloadCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "20000")
		w.Write(payload(10_000))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := newTestClient(Options{}).Download(ctx, server.URL, dir, "slow.bin", 20_000, func(p int) {
		if p >= 40 {
			cancel()
		}
	})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "slow.bin"))
	assert.True(t, os.IsNotExist(statErr))
	assertNoPartials(t, dir)
}

func TestDownloadRetriesDroppedConnection(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	dir := t.TempDir()
	client := newTestClient(Options{Retries: 2, RetryDelay: 1})
	require.NoError(t, client.Download(context.Background(), server.URL, dir, "hello.txt", 5, nil))
	assert.GreaterOrEqual(t, attempts.Load(), int32(2))

	got, err := os.ReadFile(filepath.Join(dir, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestRateLimiterBurstHoldsChunk(t *testing.T) {
	client := newTestClient(Options{RateLimit: 1024})
	require.NotNil(t, client.limiter)
	assert.Equal(t, DefaultChunkSize, client.limiter.Burst())

	client = newTestClient(Options{RateLimit: 1 << 20})
	assert.Equal(t, 1<<20, client.limiter.Burst())

	assert.Nil(t, newTestClient(Options{}).limiter)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int64
		expected    int
	}{
		{0, 100, 0},
		{1, 3, 33},
		{2, 3, 66},
		{3, 3, 100},
		{5, 3, 100},
		{10, 0, -1},
		{10, -1, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, percent(tt.done, tt.total), "percent(%d, %d)", tt.done, tt.total)
	}
}

func TestSweepPartials(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".zinc-a.zip-123.part", ".zinc-b.bin-456.part", "keep.zip", ".zinc-notes"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removed, err := SweepPartials(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"keep.zip", ".zinc-notes"}, names)
}
