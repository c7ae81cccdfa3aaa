package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
)

func writeSettings(t *testing.T, home, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(home, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, SettingsFilename), []byte(content), 0o644))
}

func TestLoadCreatesDefaults(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".zinc")
	t.Setenv("HOME", t.TempDir())

	s, err := Load(home)
	require.NoError(t, err)

	cfg, err := ini.Load(filepath.Join(home, SettingsFilename))
	require.NoError(t, err)
	assert.Equal(t, "no", cfg.Section(SectionGeneral).Key(KeyLoggingDebug).String())
	assert.Equal(t, DefaultRepoURL, cfg.Section(SectionRepos).Key(DefaultRepoName).String())
	assert.Equal(t, DefaultDownloadFolder, cfg.Section(SectionFolders).Key(KeyDownloadFolder).String())

	assert.False(t, s.Debug)
	assert.Equal(t, []Repo{{Name: DefaultRepoName, URL: DefaultRepoURL}}, s.Repos)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), "Download"), s.DownloadDir)
	assert.Equal(t, 15*time.Second, s.ConnectTimeout)
	assert.Equal(t, 60*time.Second, s.ReadTimeout)
	assert.Equal(t, DefaultRetries, s.Retries)
	assert.Zero(t, s.RateLimit)
	assert.Equal(t, filepath.Join(home, LogFilename), s.LogPath())
}

func TestLoadExistingSettings(t *testing.T) {
	home := t.TempDir()
	downloads := filepath.Join(t.TempDir(), "dl")
	writeSettings(t, home, `
[General]
logging_debug = yes
rate_limit = 512K
proxy = http://127.0.0.1:3128
connect_timeout = 5
retries = 4

[Dropbox]
music = https://example.com/sh/music?dl=0
books = https://example.com/sh/books?dl=0

[Folders]
download_folder = `+downloads+`
`)

	s, err := Load(home)
	require.NoError(t, err)

	assert.True(t, s.Debug)
	assert.Equal(t, int64(512*1024), s.RateLimit)
	assert.Equal(t, "http://127.0.0.1:3128", s.Proxy)
	assert.Equal(t, 5*time.Second, s.ConnectTimeout)
	assert.Equal(t, 60*time.Second, s.ReadTimeout)
	assert.Equal(t, 4, s.Retries)
	assert.Equal(t, downloads, s.DownloadDir)
	assert.Equal(t, []Repo{
		{Name: "music", URL: "https://example.com/sh/music?dl=0"},
		{Name: "books", URL: "https://example.com/sh/books?dl=0"},
	}, s.Repos)
}

func TestLoadNoRepos(t *testing.T) {
	home := t.TempDir()
	writeSettings(t, home, "[General]\nlogging_debug = no\n\n[Dropbox]\nempty =\n\n[Folders]\ndownload_folder = /tmp/zinc\n")

	s, err := Load(home)
	require.NoError(t, err)
	assert.Empty(t, s.Repos)
}

func TestLoadInvalidRateLimit(t *testing.T) {
	home := t.TempDir()
	writeSettings(t, home, "[General]\nrate_limit = fast\n")

	_, err := Load(home)
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyRateLimit)
}

func TestDownloadPathCreatesFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	s := &Settings{DownloadDir: dir}

	got, err := s.DownloadPath()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)
}

func TestDownloadPathFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := (&Settings{DownloadDir: filepath.Join(file, "sub")}).DownloadPath()
	assert.Error(t, err)
}

func TestDefaultHome(t *testing.T) {
	t.Setenv(HomeEnv, "/srv/zinc")
	home, err := DefaultHome()
	require.NoError(t, err)
	assert.Equal(t, "/srv/zinc", home)

	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", "/home/someone")
	home, err = DefaultHome()
	require.NoError(t, err)
	assert.Equal(t, "/home/someone/.zinc", home)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/someone")

	tests := []struct {
		in, expected string
	}{
		{"~", "/home/someone"},
		{"~/Download/", "/home/someone/Download"},
		{"/data/zinc", "/data/zinc"},
		{"~other/x", "~other/x"},
	}
	for _, tt := range tests {
		got, err := expandHome(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, tt.in)
	}
}
