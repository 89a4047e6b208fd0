package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/forecast"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Data]")
	fmt.Printf("    Path:          %s\n", cfg.Data.Path)
	fmt.Printf("    Delimiter:     %s\n", describeDelimiter(cfg.Data.Delimiter))
	fmt.Printf("    Columns:       date=%s category=%s value=%s\n", cfg.Data.DateColumn, cfg.Data.CategoryColumn, cfg.Data.ValueColumn)
	fmt.Printf("    Expenses only: %v\n", cfg.Data.ExpensesOnly)
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Categories:  %s\n", strings.Join(cfg.Forecast.Categories, ", "))
	fmt.Printf("    Horizon:     %d months\n", cfg.Forecast.HorizonMonths)
	fmt.Printf("    Min history: %d months\n", cfg.Forecast.MinHistory)
	if m, err := forecast.FromConfig(cfg.Forecast); err == nil {
		fmt.Printf("    Model:       %s\n", m.Name())
	} else {
		fmt.Printf("    Model:       %s (%v)\n", cfg.Forecast.Model, err)
	}
	workers := "GOMAXPROCS"
	if cfg.Forecast.Workers > 0 {
		workers = strconv.Itoa(cfg.Forecast.Workers)
	}
	fmt.Printf("    Workers:     %s\n", workers)
	fmt.Println()

	fmt.Println("  [Query]")
	fmt.Printf("    Default SQL: %s\n", cfg.Query.DefaultSQL)
	fmt.Printf("    Row limit:   %d\n", cfg.Query.RowLimit)
	if cfg.Query.Cache {
		fmt.Printf("    Cache:       %s\n", config.CacheDir())
	} else {
		fmt.Println("    Cache:       off (in memory)")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Invalid: %v\n\n", err)
	}
	fmt.Println("  Run `spendcast setup` to reconfigure.")
	return nil
}

func describeDelimiter(d string) string {
	switch d {
	case "":
		return "auto-detect"
	case "\t":
		return "tab"
	}
	return strconv.Quote(d)
}
