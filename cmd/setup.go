package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/pipeline"
	"github.com/theirongolddev/spendcast/internal/source"
	"github.com/theirongolddev/spendcast/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

var delimiterOptions = []huh.Option[string]{
	huh.NewOption("Semicolon ;", ";"),
	huh.NewOption("Comma ,", ","),
	huh.NewOption("Tab", "\t"),
	huh.NewOption("Pipe |", "|"),
	huh.NewOption("Auto-detect", ""),
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file, not from flags or environment.
	cfg, err := config.LoadFile(config.ConfigPath())
	if err != nil {
		return err
	}
	if flagFile != "" {
		cfg.Data.Path = flagFile
	}

	fmt.Println()
	fmt.Println("  Welcome to spendcast!")
	fmt.Println()

	// 1. Where the data lives
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bank export").
				Description("CSV file, or a directory of monthly exports").
				Value(&cfg.Data.Path).
				Validate(validatePath),
			huh.NewSelect[string]().
				Title("Delimiter").
				Options(delimiterOptions...).
				Value(&cfg.Data.Delimiter),
			huh.NewInput().Title("Date column").Value(&cfg.Data.DateColumn),
			huh.NewInput().Title("Category column").Value(&cfg.Data.CategoryColumn),
			huh.NewInput().Title("Amount column").Value(&cfg.Data.ValueColumn),
		),
	).Run()
	if err != nil {
		return setupAborted(err)
	}

	// 2. Categories come from the file itself
	load, err := pipeline.Load(cfg.Data.Path, pipeline.SourceOptions(cfg.Data), nil)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.Data.Path, err)
	}
	found := source.Categories(load.Rows)
	fmt.Printf("  Found %d rows in %d categories\n\n", len(load.Rows), len(found))

	selected := keepKnown(cfg.Forecast.Categories, found)
	options := make([]huh.Option[string], len(found))
	for i, c := range found {
		options[i] = huh.NewOption(c, c).Selected(slices.Contains(selected, c))
	}

	horizon := strconv.Itoa(cfg.Forecast.HorizonMonths)
	modelName := cfg.Forecast.Model
	if modelName == "" {
		modelName = "sarima"
	}
	themeName := cfg.Appearance.Theme

	// 3. Forecast and appearance
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Categories to track").
				Description("Everything else is grouped as "+pipeline.OthersType).
				Options(options...).
				Value(&selected),
			huh.NewInput().
				Title("Forecast horizon (months)").
				Value(&horizon).
				Validate(validatePositive),
			huh.NewSelect[string]().
				Title("Model").
				Options(huh.NewOptions("sarima", "seasonal-naive")...).
				Value(&modelName),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&themeName),
		),
	).Run()
	if err != nil {
		return setupAborted(err)
	}

	cfg.Forecast.Categories = selected
	cfg.Forecast.HorizonMonths, _ = strconv.Atoi(horizon)
	cfg.Forecast.Model = modelName
	cfg.Appearance.Theme = themeName

	if _, err := forecast.FromConfig(cfg.Forecast); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `spendcast setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func setupAborted(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		fmt.Println("  Setup cancelled, nothing saved.")
		return nil
	}
	return err
}

func validatePath(p string) error {
	p = strings.TrimSpace(p)
	if p == "" {
		return errors.New("path is required")
	}
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("cannot read %s", p)
	}
	return nil
}

func validatePositive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("enter a whole number of months, at least 1")
	}
	return nil
}

// keepKnown returns the configured categories that still occur in the data.
func keepKnown(configured, found []string) []string {
	var out []string
	for _, c := range configured {
		if slices.Contains(found, c) {
			out = append(out, c)
		}
	}
	return out
}
