package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	SaveDirectory string `toml:"save_directory"`
	ExportPNG     bool   `toml:"export_png"`
	LogFile       string `toml:"log_file"`
}

// defaultConfigPath is $XDG_CONFIG_HOME/dxgmr/config.toml, falling back to
// ~/.config/dxgmr/config.toml.
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dxgmr", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dxgmr", "config.toml")
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults. DXGMR_SAVE_DIR and
// DXGMR_LOG override the file.
func loadConfig(path string) (*Config, error) {
	config := &Config{}
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, config); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if dir := os.Getenv("DXGMR_SAVE_DIR"); dir != "" {
		config.SaveDirectory = dir
	}
	if logFile := os.Getenv("DXGMR_LOG"); logFile != "" {
		config.LogFile = logFile
	}

	config.SaveDirectory = expandPath(config.SaveDirectory)
	config.LogFile = expandPath(config.LogFile)
	return config, nil
}

// expandPath resolves a leading ~ and makes the path absolute. Empty stays
// empty.
func expandPath(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	return filepath.Join(c.SaveDirectory, filename)
}
