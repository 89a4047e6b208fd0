package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Config holds all spendcast configuration. Defaults come from the
// default tags; validate tags are checked by Validate.
type Config struct {
	Data       DataConfig       `toml:"data"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Query      QueryConfig      `toml:"query"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// DataConfig describes the input CSV.
type DataConfig struct {
	Path           string `toml:"path" default:"data.csv"`
	Delimiter      string `toml:"delimiter" default:";" validate:"delimiter"`
	DateColumn     string `toml:"date_column" default:"Date"`
	CategoryColumn string `toml:"category_column" default:"category"`
	ValueColumn    string `toml:"value_column" default:"value"`
	ExpensesOnly   bool   `toml:"expenses_only" default:"true"`
}

// ForecastConfig holds pipeline settings.
type ForecastConfig struct {
	Categories    []string     `toml:"categories" default:"[\"Fun\",\"Necessities\"]"`
	HorizonMonths int          `toml:"horizon_months" default:"12" validate:"min=1"`
	MinHistory    int          `toml:"min_history" default:"12" validate:"min=1"`
	Model         string       `toml:"model" default:"sarima"`
	Workers       int          `toml:"workers" validate:"min=0"`
	SARIMA        SARIMAConfig `toml:"sarima"`
}

// SARIMAConfig holds the seasonal ARIMA orders.
// Order is (p, d, q); SeasonalOrder is (P, D, Q, s).
type SARIMAConfig struct {
	Order         []int `toml:"order" default:"[1,1,1]" validate:"len=3,dive,min=0"`
	SeasonalOrder []int `toml:"seasonal_order" default:"[1,0,1,12]" validate:"len=4,dive,min=0"`
	MaxIterations int   `toml:"max_iterations" default:"2000" validate:"min=0"`
}

// QueryConfig holds the SQL dashboard settings.
type QueryConfig struct {
	DefaultSQL string `toml:"default_sql" default:"SELECT * FROM data"`
	RowLimit   int    `toml:"row_limit" default:"500" validate:"min=0"`
	Cache      bool   `toml:"cache"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" default:"flexoki-dark"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `toml:"level" default:"info"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	var cfg Config
	defaults.MustSet(&cfg)
	return cfg
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
	})
	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= 1
	})
	return v
}

// Validate reports settings the pipeline cannot run with.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return validationError(verrs[0])
}

// validationError renders a field error with its TOML key, e.g.
// "forecast.sarima.order needs 3 values, got 2".
func validationError(fe validator.FieldError) error {
	key := fe.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	switch fe.Tag() {
	case "min":
		if fe.Param() == "0" {
			return fmt.Errorf("%s must not be negative, got %v", key, fe.Value())
		}
		return fmt.Errorf("%s must be positive, got %v", key, fe.Value())
	case "len":
		return fmt.Errorf("%s needs %s values, got %d", key, fe.Param(), reflect.ValueOf(fe.Value()).Len())
	case "delimiter":
		return fmt.Errorf("%s must be a single character, got %q", key, fe.Value())
	default:
		return fmt.Errorf("%s failed validation: %s", key, fe.Tag())
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendcast")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "spendcast")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads a specific config file without environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to a specific path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
