// Package config reads and initializes the settings file in the application
// home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/zinc-cli/zinc/internal/utils"
)

// HomeEnv overrides the application home directory.
const HomeEnv = "ZINC_HOME"

const (
	SettingsFilename = "settings.cfg"
	LogFilename      = "zinc.log"
)

// Settings file sections and keys
const (
	SectionGeneral = "General"
	SectionRepos   = "Dropbox"
	SectionFolders = "Folders"

	KeyLoggingDebug   = "logging_debug"
	KeyRateLimit      = "rate_limit"
	KeyProxy          = "proxy"
	KeyConnectTimeout = "connect_timeout"
	KeyReadTimeout    = "read_timeout"
	KeyRetries        = "retries"
	KeyDownloadFolder = "download_folder"
)

// Default values
const (
	DefaultRepoName       = "default"
	DefaultRepoURL        = "https://www.dropbox.com/sh/3aycxk7war34ijo/AADeK2sC0IwbNEUtPnXXaOura?dl=0"
	DefaultDownloadFolder = "~/Download/"
	DefaultConnectTimeout = 15
	DefaultReadTimeout    = 60
	DefaultRetries        = 2
)

// Repo is a shared folder whose listing page can be browsed.
type Repo struct {
	Name string
	URL  string
}

// Settings is loaded once at startup and not modified afterwards.
type Settings struct {
	HomeDir        string
	DownloadDir    string
	Repos          []Repo
	Debug          bool
	RateLimit      int64
	Proxy          string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Retries        int
}

// DefaultHome returns $ZINC_HOME, or ~/.zinc when it is not set.
func DefaultHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(userHome, ".zinc"), nil
}

// Load reads the settings file in home, writing one with default values first
// if it does not exist yet.
func Load(home string) (*Settings, error) {
	path := filepath.Join(home, SettingsFilename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefaults(home, path); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("cannot read settings: %w", err)
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	general := cfg.Section(SectionGeneral)
	s := &Settings{
		HomeDir:        home,
		Debug:          general.Key(KeyLoggingDebug).MustBool(false),
		Proxy:          strings.TrimSpace(general.Key(KeyProxy).String()),
		ConnectTimeout: time.Duration(general.Key(KeyConnectTimeout).MustInt(DefaultConnectTimeout)) * time.Second,
		ReadTimeout:    time.Duration(general.Key(KeyReadTimeout).MustInt(DefaultReadTimeout)) * time.Second,
		Retries:        general.Key(KeyRetries).MustInt(DefaultRetries),
	}

	s.RateLimit, err = utils.ParseBytes(general.Key(KeyRateLimit).String())
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyRateLimit, err)
	}

	folder := cfg.Section(SectionFolders).Key(KeyDownloadFolder).MustString(DefaultDownloadFolder)
	s.DownloadDir, err = expandHome(folder)
	if err != nil {
		return nil, err
	}

	for _, key := range cfg.Section(SectionRepos).Keys() {
		u := strings.TrimSpace(key.String())
		if u == "" {
			continue
		}
		s.Repos = append(s.Repos, Repo{Name: key.Name(), URL: u})
	}

	return s, nil
}

// DownloadPath returns the download directory, creating it if it is missing.
func (s *Settings) DownloadPath() (string, error) {
	if err := os.MkdirAll(s.DownloadDir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create download folder %s: %w", s.DownloadDir, err)
	}
	return s.DownloadDir, nil
}

// LogPath returns the diagnostic log file location.
func (s *Settings) LogPath() string {
	return filepath.Join(s.HomeDir, LogFilename)
}

func writeDefaults(home, path string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", home, err)
	}

	cfg := ini.Empty()
	defaults := []struct {
		section, key, value string
	}{
		{SectionGeneral, KeyLoggingDebug, "no"},
		{SectionRepos, DefaultRepoName, DefaultRepoURL},
		{SectionFolders, KeyDownloadFolder, DefaultDownloadFolder},
	}
	for _, d := range defaults {
		if _, err := cfg.Section(d.section).NewKey(d.key, d.value); err != nil {
			return err
		}
	}

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %s: %w", path, err)
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~")), nil
}
