package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName       = "smartbar"
	settingsFileName = "settings.toml"
	privateDirPerm   = 0o700
)

// GetConfigDir is where settings.toml lives. SMARTBAR_CONFIG_DIR wins, then
// $XDG_CONFIG_HOME/smartbar, then ~/.config/smartbar.
func GetConfigDir() string {
	if dir := os.Getenv("SMARTBAR_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	return filepath.Join(GetHomeDir(), ".config", appDirName)
}

func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), settingsFileName)
}

// GetHomeDir falls back to the filesystem root when no home is known.
func GetHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return string(filepath.Separator)
}

// ExpandPath resolves a leading ~/ and $VARS in data_directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		path = filepath.Join(GetHomeDir(), rest)
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path (user-only) if missing.
func EnsureDir(path string) error {
	return os.MkdirAll(path, privateDirPerm)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDataDirPermissions creates the data directory or tightens an
// existing one to 0700. It holds history and saved chats.
func EnsureDataDirPermissions(dataDir string) error {
	info, err := os.Stat(dataDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return EnsureDir(dataDir)
	case err != nil:
		return err
	case !info.IsDir():
		return &fs.PathError{Op: "prepare", Path: dataDir, Err: errors.New("not a directory")}
	case info.Mode().Perm() != privateDirPerm:
		return os.Chmod(dataDir, privateDirPerm)
	}
	return nil
}
