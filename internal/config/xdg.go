package config

import (
	"os"
	"path/filepath"
)

const appName = "typerec"

// xdgDir resolves an XDG base directory, falling back to a path under $HOME
// and to the working directory when no home is known.
func xdgDir(envKey string, fallback ...string) string {
	if dir := os.Getenv(envKey); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

func configDir() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), appName)
}

func dataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), appName)
}

// DefaultWordListDir holds one <lang>.txt per language.
func DefaultWordListDir() string {
	return filepath.Join(configDir(), "wordlists")
}

// DefaultWordListPath is the word list file for lang.
func DefaultWordListPath(lang string) string {
	return filepath.Join(DefaultWordListDir(), lang+".txt")
}

// DefaultConfigPath is the TOML config file.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// DefaultEnvPath is the optional dotenv file next to the config.
func DefaultEnvPath() string {
	return filepath.Join(configDir(), ".env")
}

// DefaultLogPath is the rotated diagnostic log.
func DefaultLogPath() string {
	return filepath.Join(dataDir(), appName+".log")
}
