// Package app drives the interactive session: repo selection, file listing,
// selection and sequential download.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/zinc-cli/zinc/internal/config"
	"github.com/zinc-cli/zinc/internal/dialog"
	"github.com/zinc-cli/zinc/internal/downloader"
	"github.com/zinc-cli/zinc/internal/listing"
	"github.com/zinc-cli/zinc/internal/utils"
)

// User-facing texts
const (
	MsgNoRepos        = "No repos configured"
	MsgChooseRepo     = "Choose repo"
	MsgBye            = "OK! Bye!"
	MsgRequesting     = "Requesting filelist..."
	MsgNoFilelist     = "No filelist! Check internet connection!"
	MsgAnotherRepo    = "Choose another repo?"
	MsgNothingToDo    = "Nothing to download"
	MsgChooseFiles    = "Choose files to download"
	MsgChooseMore     = "All files downloaded. Want to choose more?"
	labelExit         = "Exit"
	labelYes          = "Yes"
	labelNo           = "No"
	unknownSizeLabel  = "unknown size"
	downloadTitleForm = "Downloading %s of %s"
)

// Remote is the network side of a session.
type Remote interface {
	FetchListing(ctx context.Context, listingURL string) ([]byte, string, error)
	Probe(ctx context.Context, link string) (int64, error)
	Download(ctx context.Context, link, dir, filename string, total int64, progress downloader.ProgressFunc) error
}

// App holds the collaborators of one interactive session.
type App struct {
	settings *config.Settings
	remote   Remote
	dialog   dialog.Dialog
	log      logrus.FieldLogger
}

func New(settings *config.Settings, remote Remote, d dialog.Dialog, log logrus.FieldLogger) *App {
	return &App{
		settings: settings,
		remote:   remote,
		dialog:   d,
		log:      log,
	}
}

// Run lets the user pick repos until they exit. With a single repo it is used
// without asking and the session ends after it.
func (a *App) Run(ctx context.Context) error {
	repos := a.settings.Repos
	if len(repos) == 0 {
		return a.dialog.Message(MsgNoRepos)
	}

	names := make([]string, len(repos))
	byName := make(map[string]config.Repo, len(repos))
	for i, r := range repos {
		names[i] = r.Name
		byName[r.Name] = r
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		repo := repos[0]
		if len(repos) > 1 {
			name, ok, err := a.dialog.Menu(MsgChooseRepo, names, labelExit)
			if err != nil {
				return err
			}
			if !ok {
				return a.dialog.Message(MsgBye)
			}
			repo = byName[name]
		}

		if err := a.processRepo(ctx, repo); err != nil {
			return err
		}

		if len(repos) == 1 {
			return nil
		}
		again, err := a.dialog.Confirm(MsgAnotherRepo, labelYes, labelExit)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// processRepo fetches and presents one repo. Errors that only end this repo's
// iteration are reported to the user and not returned.
func (a *App) processRepo(ctx context.Context, repo config.Repo) error {
	log := a.log.WithField("repo", repo.Name)

	a.dialog.Info(MsgRequesting)
	body, contentType, err := a.remote.FetchListing(ctx, repo.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Error("cannot fetch file list")
		return a.dialog.Message(MsgNoFilelist)
	}

	entries, err := listing.Extract(bytes.NewReader(body), contentType)
	if err != nil {
		log.WithError(err).Error("cannot read file list")
		return a.dialog.Message(err.Error())
	}

	for _, e := range entries {
		log.Debugf("found %s -> %s", e.Filename, e.Link)
	}
	log.Debugf("%d files listed", len(entries))

	return a.ProcessFileList(ctx, entries)
}

// ProcessFileList offers the entries not yet downloaded and downloads the
// ones the user picks, one at a time, until the user stops or nothing is
// left. A per-file failure is reported and the batch goes on; a download
// folder that cannot be created is returned.
func (a *App) ProcessFileList(ctx context.Context, entries []listing.FileEntry) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir, err := a.settings.DownloadPath()
		if err != nil {
			return err
		}

		pending := FilterExisting(dir, entries)
		if len(pending) == 0 {
			return a.dialog.Message(MsgNothingToDo)
		}

		items := make([]dialog.Item, len(pending))
		for i, e := range pending {
			items[i] = dialog.Item{Tag: strconv.Itoa(i), Label: e.Filename, Detail: e.Link}
		}
		tags, ok, err := a.dialog.MultiSelect(MsgChooseFiles, items)
		if err != nil {
			return err
		}
		if !ok || len(tags) == 0 {
			return nil
		}

		for _, tag := range tags {
			i, err := strconv.Atoi(tag)
			if err != nil || i < 0 || i >= len(pending) {
				return fmt.Errorf("unexpected selection %q", tag)
			}
			// a duplicate row may already have been fetched in this batch
			if downloaded(dir, pending[i].Filename) {
				a.log.WithField("file", pending[i].Filename).Debug("already downloaded, skipping")
				continue
			}
			if err := a.download(ctx, pending[i]); err != nil {
				return err
			}
		}

		more, err := a.dialog.Confirm(MsgChooseMore, labelYes, labelNo)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// downloadTask is one file scheduled into a resolved directory.
type downloadTask struct {
	entry listing.FileEntry
	dir   string
	size  int64
}

func (t downloadTask) title() string {
	size := unknownSizeLabel
	if t.size >= 0 {
		size = utils.HumanBytes(t.size)
	}
	return fmt.Sprintf(downloadTitleForm, size, t.entry.Filename)
}

// download fetches a single entry. Only fatal conditions are returned.
func (a *App) download(ctx context.Context, entry listing.FileEntry) error {
	dir, err := a.settings.DownloadPath()
	if err != nil {
		return err
	}
	task := downloadTask{entry: entry, dir: dir, size: -1}
	log := a.log.WithField("file", entry.Filename)

	size, err := a.remote.Probe(ctx, entry.Link)
	switch {
	case err == nil:
		task.size = size
	case errors.Is(err, downloader.ErrSizeUnavailable):
		log.Debug("size unavailable, progress will be indeterminate")
	default:
		return a.reportFailure(ctx, log, err)
	}

	gauge := a.dialog.Gauge(task.title())
	err = a.remote.Download(ctx, entry.Link, task.dir, entry.Filename, task.size, gauge.Update)
	gauge.Done()
	if err != nil {
		return a.reportFailure(ctx, log, err)
	}

	log.Debugf("saved to %s", filepath.Join(task.dir, entry.Filename))
	return nil
}

// reportFailure shows a per-file error. Cancellation is returned instead.
func (a *App) reportFailure(ctx context.Context, log logrus.FieldLogger, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.WithError(err).Error("download failed")

	var dlErr *downloader.DownloadError
	var netErr *downloader.NetworkError
	if !errors.As(err, &dlErr) && !errors.As(err, &netErr) {
		return err
	}
	return a.dialog.Message(err.Error())
}

// FilterExisting returns the entries whose file is not yet present in dir as a
// non-empty regular file, keeping their order.
func FilterExisting(dir string, entries []listing.FileEntry) []listing.FileEntry {
	var out []listing.FileEntry
	for _, e := range entries {
		if !downloaded(dir, e.Filename) {
			out = append(out, e)
		}
	}
	return out
}

func downloaded(dir, filename string) bool {
	info, err := os.Stat(filepath.Join(dir, filename))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
