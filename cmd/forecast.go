package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendcast/internal/chart"
	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/pipeline"

	"github.com/spf13/cobra"
)

const (
	chartWidth  = 80
	chartHeight = 16
)

var (
	flagHorizon    int
	flagMinHistory int
	flagModel      string
	flagCategories []string
	flagWorkers    int
	flagFcChart    string
	flagNoTable    bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Historical and forecasted monthly totals by type",
	RunE:  runForecast,
}

func init() {
	addForecastFlags(forecastCmd)
	rootCmd.AddCommand(forecastCmd)
}

// addForecastFlags registers the forecast flags on cmd. The root command
// gets them too since forecasting is its default action.
func addForecastFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagHorizon, "horizon", 0, "Months to forecast (default from config)")
	cmd.Flags().IntVar(&flagMinHistory, "min-history", 0, "Months of history a type needs to be forecast")
	cmd.Flags().StringVar(&flagModel, "model", "", "Forecast model: sarima or seasonal-naive")
	cmd.Flags().StringSliceVar(&flagCategories, "categories", nil, "Categories kept as their own type; the rest become Others")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent model fits (default GOMAXPROCS)")
	cmd.Flags().StringVar(&flagFcChart, "chart", "line", "Chart type: none, bar, line or area")
	cmd.Flags().BoolVar(&flagNoTable, "no-table", false, "Skip the month by month table")
}

// forecastConfig applies forecast flags over the loaded config.
func forecastConfig() (config.ForecastConfig, error) {
	fc := appCfg.Forecast
	if flagHorizon > 0 {
		fc.HorizonMonths = flagHorizon
	}
	if flagMinHistory > 0 {
		fc.MinHistory = flagMinHistory
	}
	if flagModel != "" {
		fc.Model = flagModel
	}
	if len(flagCategories) > 0 {
		fc.Categories = flagCategories
	}
	if flagWorkers > 0 {
		fc.Workers = flagWorkers
	}

	cfg := appCfg
	cfg.Forecast = fc
	return fc, cfg.Validate()
}

func runForecast(cmd *cobra.Command, _ []string) error {
	fc, err := forecastConfig()
	if err != nil {
		return err
	}
	kind, err := chart.ParseKind(flagFcChart)
	if err != nil {
		return err
	}

	load, err := loadRows()
	if err != nil {
		return err
	}

	opts, err := pipeline.OptionsFromConfig(fc)
	if err != nil {
		return err
	}
	logger.Debug("forecasting", "model", opts.Model.Name(), "horizon", fc.HorizonMonths, "types", opts.AllowList.Names())

	result, err := pipeline.Run(cmd.Context(), load.Rows, opts)
	if err != nil {
		return err
	}

	for _, f := range result.Failures {
		logger.Warn("forecasting failed", "type", f.Type, "err", f.Err)
	}
	for _, t := range result.Skipped {
		logger.Info("not enough history, not forecast", "type", t, "months", result.Historical[t].Len(), "need", fc.MinHistory)
	}

	if len(result.Composed.Points) == 0 {
		fmt.Println("\n  No expenses to show.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(forecastTitle(fc.Categories)))
	fmt.Println()

	fmt.Print(cli.RenderTable(summaryTable(result)))

	if kind != chart.None {
		p := chart.FromComposed(result.Composed, kind)
		p.Width = chartWidth
		p.Height = chartHeight
		if out := cli.RenderChart(p); out != "" {
			fmt.Println()
			fmt.Print(out)
		}
	}

	if !flagNoTable {
		fmt.Println()
		fmt.Print(cli.RenderTable(composedTable(result.Composed)))
	}

	return nil
}

func forecastTitle(categories []string) string {
	names := append(append([]string(nil), categories...), pipeline.OthersType)
	return fmt.Sprintf("Historical + Forecasted Totals by Type (%s)", strings.Join(names, ", "))
}

// summaryTable shows, per type, the last actual month against the first
// forecast month and the mean over the horizon.
func summaryTable(r *pipeline.Result) cli.Table {
	var rows [][]string
	for _, t := range r.Composed.Types() {
		var (
			last, next  *model.ComposedPoint
			sum         float64
			n, hist     int
			points      = r.Composed.ForType(t)
			forecastRow = "-"
			avgRow      = "-"
			changeRow   = "-"
		)
		for i := range points {
			p := &points[i]
			if p.Source == model.SourceHistorical {
				last = p
				hist++
				continue
			}
			if next == nil {
				next = p
			}
			sum += p.Total
			n++
		}

		lastRow := "-"
		if last != nil {
			lastRow = fmt.Sprintf("%s (%s)", cli.FormatAmount(last.Total), cli.FormatMonth(last.Month))
		}
		if next != nil {
			forecastRow = fmt.Sprintf("%s (%s)", cli.FormatAmount(next.Total), cli.FormatMonth(next.Month))
			avgRow = cli.FormatAmount(sum / float64(n))
			if last != nil {
				changeRow = cli.FormatChange(next.Total, last.Total)
			}
		}
		rows = append(rows, []string{t, fmt.Sprintf("%d", hist), lastRow, forecastRow, avgRow, changeRow})
	}

	return cli.Table{
		Headers: []string{"Type", "Months", "Last Actual", "Next Forecast", "Forecast Avg", "Change"},
		Rows:    rows,
	}
}

// composedTable lists every point, one block per type. Forecast rows are
// drawn muted.
func composedTable(c model.Composed) cli.Table {
	var (
		rows [][]string
		dim  []bool
	)
	for i, t := range c.Types() {
		if i > 0 {
			rows = append(rows, []string{"---"})
			dim = append(dim, false)
		}
		for _, p := range c.ForType(t) {
			rows = append(rows, []string{
				model.FormatMonth(p.Month),
				p.Type,
				cli.FormatAmount(p.Total),
				string(p.Source),
			})
			dim = append(dim, p.Source == model.SourceForecast)
		}
	}
	return cli.Table{
		Headers: []string{"Month", "Type", "Total", "Source"},
		Rows:    rows,
		Left:    []bool{true, true, false, true},
		Dim:     dim,
	}
}
