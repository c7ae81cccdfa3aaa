package downloader

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/zinc-cli/zinc/internal/utils"
)

// diskUsage is replaced in tests.
var diskUsage = disk.Usage

// ensureSpace fails with ErrInsufficientSpace when dir's filesystem has fewer
// than size free bytes. An unreadable usage is logged and not treated as fatal.
func (c *Client) ensureSpace(dir string, size int64) error {
	usage, err := diskUsage(dir)
	if err != nil {
		c.log.WithError(err).Warnf("cannot determine free space in %s", dir)
		return nil
	}
	if usage.Free < uint64(size) {
		return fmt.Errorf("%w: need %s, %s available in %s",
			ErrInsufficientSpace, utils.HumanBytes(size), utils.HumanBytes(int64(usage.Free)), dir)
	}
	return nil
}
