package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const (
	partialPrefix = ".zinc-"
	partialSuffix = ".part"
)

// Download streams link into dir/filename. total is the expected size used for
// progress reporting; pass a value <= 0 when it is unknown. The data is written
// to a hidden temporary file in dir and renamed into place only once complete,
// so dir/filename never holds a partial file.
func (c *Client) Download(ctx context.Context, link, dir, filename string, total int64, progress ProgressFunc) error {
	if progress == nil {
		progress = func(int) {}
	}
	fail := func(err error) error {
		return &DownloadError{Name: filename, Err: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(fmt.Errorf("failed to create directory: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return &NetworkError{Op: "download", URL: link, Err: err}
	}
	resp, err := c.do(req)
	if err != nil {
		return &NetworkError{Op: "download", URL: link, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &NetworkError{Op: "download", URL: link, Status: resp.StatusCode}
	}

	if total <= 0 && resp.ContentLength > 0 {
		total = resp.ContentLength
	} else if resp.ContentLength > 0 && resp.ContentLength != total {
		c.log.Debugf("Content-Length of %s changed from %d to %d", filename, total, resp.ContentLength)
		total = resp.ContentLength
	}

	if total > 0 {
		if err := c.ensureSpace(dir, total); err != nil {
			return fail(err)
		}
	}

	tmp, err := os.CreateTemp(dir, partialPrefix+filename+"-*"+partialSuffix)
	if err != nil {
		return fail(fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
		}
		// no-op after a successful rename
		os.Remove(tmpPath)
	}()

	buf := make([]byte, c.chunkSize)
	var written int64
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if c.limiter != nil {
				if werr := c.limiter.WaitN(ctx, n); werr != nil {
					return fail(werr)
				}
			}
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				return fail(fmt.Errorf("write error at %d bytes: %w", written, werr))
			}
			written += int64(n)
			progress(percent(written, total))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fail(fmt.Errorf("read error at %d bytes: %w", written, rerr))
		}
	}

	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return fail(fmt.Errorf("download incomplete: expected %d bytes, downloaded %d bytes", resp.ContentLength, written))
	}

	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("failed to flush file: %w", err))
	}
	closeErr := tmp.Close()
	tmp = nil
	if closeErr != nil {
		return fail(fmt.Errorf("failed to close file: %w", closeErr))
	}

	dest := filepath.Join(dir, filename)
	if err := os.Rename(tmpPath, dest); err != nil {
		return fail(fmt.Errorf("failed to move file to destination: %w", err))
	}

	progress(100)
	c.log.Debugf("Downloaded %s (%d bytes) to %s", filename, written, dest)
	return nil
}

// percent is floor(done*100/total), capped at 100, or -1 if total is unknown.
func percent(done, total int64) int {
	if total <= 0 {
		return -1
	}
	p := done * 100 / total
	if p > 100 {
		p = 100
	}
	return int(p)
}

// SweepPartials removes temporary files left in dir by downloads that were
// killed before they could clean up. It returns how many were removed.
func SweepPartials(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, partialPrefix+"*"+partialSuffix))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
