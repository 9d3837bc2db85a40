// Package paths locates the Zotero database file and the zot-tui
// configuration directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/vv111y/zot-tui/pkg/types"
)

// Environment variable names for overrides.
const (
	EnvDatabase  = "ZOTERO_SQLITE"
	EnvConfigDir = "ZOT_TUI_CONFIG_DIR"
)

// DatabaseFileName is the fixed name Zotero gives its library database.
const DatabaseFileName = "zotero.sqlite"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/zot-tui (fallback ~/.config/zot-tui)
// macOS:   ~/Library/Application Support/zot-tui
// Windows: %APPDATA%/zot-tui
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "zot-tui"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "zot-tui"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "zot-tui"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > ZOT_TUI_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabasePath returns the path to zotero.sqlite following the
// precedence chain: flag > ZOTERO_SQLITE env > config file value >
// platform auto-detection.
//
// An explicit override always wins, but must point at an existing file;
// a dangling override is reported as ErrDatabaseNotFound rather than
// silently falling through to auto-detection.
func ResolveDatabasePath(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, os.Getenv(EnvDatabase), configValue} {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("%w: %s", types.ErrDatabaseNotFound, abs)
		}
		return abs, nil
	}
	return DetectDatabase()
}

// DetectDatabase probes the OS-conventional Zotero locations in a fixed
// order and returns the first existing database file.
//
// All platforms: ~/Zotero/zotero.sqlite (Zotero 5+ default data directory).
// macOS:         ~/Library/Application Support/Zotero/Profiles/*/zotero.sqlite
// Linux:         ~/.zotero/zotero/*/zotero.sqlite
// Windows:       %APPDATA%/Zotero/Zotero/Profiles/*/zotero.sqlite
func DetectDatabase() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}

	candidates := []string{filepath.Join(home, "Zotero", DatabaseFileName)}
	for _, pattern := range profilePatterns(home) {
		matches, _ := filepath.Glob(pattern)
		candidates = append(candidates, matches...)
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", types.ErrDatabaseNotFound
}

// profilePatterns returns glob patterns for legacy profile-relative data
// directories for the current platform.
func profilePatterns(home string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{filepath.Join(home, "Library", "Application Support", "Zotero", "Profiles", "*", DatabaseFileName)}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return []string{filepath.Join(appData, "Zotero", "Zotero", "Profiles", "*", DatabaseFileName)}
		}
		return nil
	default:
		return []string{filepath.Join(home, ".zotero", "zotero", "*", DatabaseFileName)}
	}
}
