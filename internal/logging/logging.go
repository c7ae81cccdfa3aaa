// Package logging sets up the diagnostic log file.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to path, truncated at every start. With debug
// off only errors are recorded. The returned Closer closes the file.
func New(path string, debug bool) (*logrus.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	logger.SetLevel(Level(debug))

	return logger, f, nil
}

// Level maps the logging_debug setting to a logrus level.
func Level(debug bool) logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	return logrus.ErrorLevel
}
