// Config loading for the zot-tui CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDatabase  = "database"
	cfgKeyPager     = "pager"
	cfgKeyOpener    = "opener"
	cfgKeyFzfHeight = "fzf.height"

	defaultFzfHeight = "80%"
)

// defaultConfigYAML is written to config.yaml on first run so the
// available keys are discoverable.
const defaultConfigYAML = `# zot-tui configuration

# Path to zotero.sqlite. Optional: the --db flag and $ZOTERO_SQLITE take
# precedence, and known platform locations are probed when unset.
# database:

# Full-entry viewer. Optional: defaults to $PAGER, then less, then more.
# pager:

# File-open command. Optional: defaults to xdg-open (Linux) or open (macOS).
# opener:

fzf:
  height: "80%"
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default file on first run. A
// missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyFzfHeight, defaultFzfHeight)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
