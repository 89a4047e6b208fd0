// Package cmd implements the spendcast CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/pipeline"
	"github.com/theirongolddev/spendcast/internal/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagFile    string
	flagDelim   string
	flagQuiet   bool
	flagVerbose bool
	flagNoCache bool
)

// Set by the root PersistentPreRunE for every command.
var (
	appCfg config.Config
	logger *log.Logger
)

// errReported marks errors already shown to the user.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:               "spendcast",
	Short:             "Expense forecasts by category",
	Long:              "Forecast monthly spending per category from a bank CSV export, and query it with SQL.",
	RunE:              runForecast,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "CSV export (or directory of exports); overrides config")
	rootCmd.PersistentFlags().StringVar(&flagDelim, "delim", "", `Field delimiter, e.g. ";" "," "tab"; empty uses config`)
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Keep the query database in memory even if caching is enabled")

	addForecastFlags(rootCmd)
}

// setup loads .env, the config file and flag overrides, then builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagFile != "" {
		cfg.Data.Path = flagFile
	}
	if flagDelim != "" {
		d := flagDelim
		if d == `\t` || strings.EqualFold(d, "tab") {
			d = "\t"
		}
		cfg.Data.Delimiter = d
	}

	appCfg = cfg
	logger = cli.NewLogger(os.Stderr, cfg.Log.Level, flagQuiet, flagVerbose)
	return nil
}

// loadRows is the shared data loading path used by the pipeline commands.
func loadRows() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", appCfg.Data.Path)
	}

	progressFn := func(current, total int) {
		if flagQuiet || total < 2 {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
	}

	result, err := pipeline.Load(appCfg.Data.Path, pipeline.SourceOptions(appCfg.Data), progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 1 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d files    \n", result.ParsedFiles)
	}
	logger.Debug("loaded rows",
		"rows", len(result.Rows),
		"skipped", result.Skipped,
		"filtered", result.Filtered,
		"delimiter", string(result.Delimiter))
	if result.Skipped > 0 {
		logger.Info("skipped unreadable rows", "count", result.Skipped)
	}

	return result, nil
}

// openStore opens the query database: in memory unless caching is on.
// A cache that cannot be opened falls back to memory.
func openStore() (*store.DB, error) {
	if appCfg.Query.Cache && !flagNoCache {
		path := filepath.Join(config.CacheDir(), "query.db")
		db, err := store.Open(path)
		if err == nil {
			logger.Debug("query cache", "path", path)
			return db, nil
		}
		logger.Warn("query cache unavailable, using memory", "err", err)
	}
	return store.Open("")
}
