package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zinc-cli/zinc/internal/app"
	"github.com/zinc-cli/zinc/internal/config"
	"github.com/zinc-cli/zinc/internal/dialog"
	"github.com/zinc-cli/zinc/internal/downloader"
	"github.com/zinc-cli/zinc/internal/logging"
)

const version = "0.3.5"

var backtitle = "ZiNC is Not a Cloud. v" + version

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zinc",
		Short: "Download files from shared Dropbox folders",
		Long: `zinc lists the files of the shared folders configured in ~/.zinc/settings.cfg,
lets you pick the ones not downloaded yet and fetches them one at a time.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), dialog.NewTerminal(backtitle))
		},
	}
}

// terminal is a Dialog that reports Ctrl+C pressed inside a prompt.
type terminal interface {
	dialog.Dialog
	OnInterrupt(fn func())
}

func run(ctx context.Context, term terminal) error {
	// no log file until the settings are read
	home, err := config.DefaultHome()
	if err != nil {
		return fatal(term, logrus.StandardLogger(), err)
	}
	settings, err := config.Load(home)
	if err != nil {
		return fatal(term, logrus.StandardLogger(), err)
	}

	logger, closer, err := logging.New(settings.LogPath(), settings.Debug)
	if err != nil {
		return fatal(term, logrus.StandardLogger(), err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	term.OnInterrupt(cancel)

	dir, err := settings.DownloadPath()
	if err != nil {
		return fatal(term, logger, err)
	}
	if n, err := downloader.SweepPartials(dir); err != nil {
		logger.WithError(err).Warnf("cannot clean up partial downloads in %s", dir)
	} else if n > 0 {
		logger.Debugf("removed %d partial downloads from %s", n, dir)
	}

	client := downloader.NewClient(downloader.Options{
		RateLimit:      settings.RateLimit,
		Proxy:          settings.Proxy,
		Retries:        settings.Retries,
		ConnectTimeout: settings.ConnectTimeout,
		ReadTimeout:    settings.ReadTimeout,
	}, logger)

	err = app.New(settings, client, term, logger).Run(ctx)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, dialog.ErrInterrupted) {
		return nil
	}
	return fatal(term, logger, err)
}

// fatal records err and shows it before the program exits.
func fatal(d dialog.Dialog, log logrus.FieldLogger, err error) error {
	log.WithError(err).Error("aborting")
	if msgErr := d.Message(err.Error()); msgErr != nil {
		log.WithError(msgErr).Error("cannot show error")
	}
	return err
}
