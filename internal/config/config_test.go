package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Forecast.HorizonMonths != 12 {
		t.Fatalf("HorizonMonths = %d, want 12", cfg.Forecast.HorizonMonths)
	}
	if len(cfg.Forecast.Categories) != 2 {
		t.Fatalf("Categories = %v, want [Fun Necessities]", cfg.Forecast.Categories)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spendcast", "config.toml")

	cfg := DefaultConfig()
	cfg.Data.Path = "/tmp/export.csv"
	cfg.Forecast.Categories = []string{"Rent", "Food", "Fun"}
	cfg.Forecast.Model = "seasonal-naive"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Data.Path != cfg.Data.Path {
		t.Fatalf("Data.Path = %q, want %q", got.Data.Path, cfg.Data.Path)
	}
	if len(got.Forecast.Categories) != 3 || got.Forecast.Categories[0] != "Rent" {
		t.Fatalf("Categories = %v", got.Forecast.Categories)
	}
	if got.Forecast.Model != "seasonal-naive" {
		t.Fatalf("Model = %q, want seasonal-naive", got.Forecast.Model)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[forecast]\nhorizon_months = 6\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Forecast.HorizonMonths != 6 {
		t.Fatalf("HorizonMonths = %d, want 6", cfg.Forecast.HorizonMonths)
	}
	if cfg.Forecast.MinHistory != 12 {
		t.Fatalf("MinHistory = %d, want 12", cfg.Forecast.MinHistory)
	}
	if cfg.Data.ValueColumn != "value" {
		t.Fatalf("ValueColumn = %q, want value", cfg.Data.ValueColumn)
	}
}

func TestLoadFileBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[forecast\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvFile, "/data/other.csv")
	t.Setenv(EnvDelimiter, "tab")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Path != "/data/other.csv" {
		t.Fatalf("Data.Path = %q", cfg.Data.Path)
	}
	if cfg.Data.DelimiterRune() != '\t' {
		t.Fatalf("DelimiterRune = %q, want tab", cfg.Data.DelimiterRune())
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestDefaultConfigFromTags(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Data.Delimiter != ";" || !cfg.Data.ExpensesOnly {
		t.Fatalf("Data = %+v", cfg.Data)
	}
	if got := cfg.Forecast.SARIMA.SeasonalOrder; len(got) != 4 || got[3] != 12 {
		t.Fatalf("SeasonalOrder = %v, want [1 0 1 12]", got)
	}
	if cfg.Forecast.Categories[1] != "Necessities" {
		t.Fatalf("Categories = %v", cfg.Forecast.Categories)
	}
	if cfg.Query.RowLimit != 500 || cfg.Query.Cache {
		t.Fatalf("Query = %+v", cfg.Query)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero horizon", func(c *Config) { c.Forecast.HorizonMonths = 0 }, "forecast.horizon_months must be positive, got 0"},
		{"zero min history", func(c *Config) { c.Forecast.MinHistory = 0 }, "forecast.min_history must be positive, got 0"},
		{"short order", func(c *Config) { c.Forecast.SARIMA.Order = []int{1, 1} }, "forecast.sarima.order needs 3 values, got 2"},
		{"short seasonal order", func(c *Config) { c.Forecast.SARIMA.SeasonalOrder = []int{1, 0, 1} }, "forecast.sarima.seasonal_order needs 4 values, got 3"},
		{"negative order", func(c *Config) { c.Forecast.SARIMA.Order = []int{1, -1, 1} }, "forecast.sarima.order[1] must not be negative, got -1"},
		{"multi-char delimiter", func(c *Config) { c.Data.Delimiter = ";;" }, `data.delimiter must be a single character, got ";;"`},
		{"negative row limit", func(c *Config) { c.Query.RowLimit = -1 }, "query.row_limit must not be negative, got -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("invalid config accepted")
			}
			if err.Error() != tt.want {
				t.Fatalf("err = %q, want %q", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Data.Delimiter = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty delimiter (sniff) rejected: %v", err)
	}
}
