package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvFile      = "SPENDCAST_FILE"
	EnvDelimiter = "SPENDCAST_DELIMITER"
	EnvTheme     = "SPENDCAST_THEME"
	EnvLogLevel  = "SPENDCAST_LOG_LEVEL"
)

// LoadDotEnv reads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvFile); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv(EnvDelimiter); v != "" {
		if v == `\t` || strings.EqualFold(v, "tab") {
			v = "\t"
		}
		cfg.Data.Delimiter = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// DelimiterRune returns the configured delimiter, or 0 to auto-detect.
func (d DataConfig) DelimiterRune() rune {
	r := []rune(d.Delimiter)
	if len(r) == 0 {
		return 0
	}
	return r[0]
}
