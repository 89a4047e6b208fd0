package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagMonths int

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly totals per type with each type's share",
	RunE:  runMonthly,
}

func init() {
	monthlyCmd.Flags().IntVarP(&flagMonths, "months", "n", 0, "Show only the latest N months (0 for all)")
	monthlyCmd.Flags().StringSliceVar(&flagCategories, "categories", nil, "Categories kept as their own type; the rest become Others")
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	fc, err := forecastConfig()
	if err != nil {
		return err
	}

	load, err := loadRows()
	if err != nil {
		return err
	}

	series := pipeline.Aggregate(pipeline.ClassifyRows(load.Rows, pipeline.NewAllowList(fc.Categories...)))
	types := pipeline.SortedTypes(series)
	shares := pipeline.MonthlyShares(series)
	if len(shares) == 0 {
		fmt.Println("\n  No expenses to show.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("Monthly Spend by Type"))
	fmt.Println()

	fmt.Print(cli.RenderTable(monthlyTable(shares, types, flagMonths)))
	fmt.Println()
	fmt.Print(cli.RenderTable(trendTable(series, types)))

	return nil
}

// monthlyTable renders one row per month with "total (share)" per type.
func monthlyTable(shares []pipeline.MonthShare, types []string, latest int) cli.Table {
	col := make(map[string]int, len(types))
	for i, t := range types {
		col[t] = i + 1
	}

	var (
		rows  [][]string
		month = -1
	)
	totals := map[int]decimal.Decimal{}
	for _, s := range shares {
		if month < 0 || rows[month][0] != model.FormatMonth(s.Month) {
			row := make([]string, len(types)+2)
			row[0] = model.FormatMonth(s.Month)
			for i := 1; i < len(row); i++ {
				row[i] = "-"
			}
			rows = append(rows, row)
			month++
		}
		rows[month][col[s.Type]] = fmt.Sprintf("%s (%s)", cli.FormatDecimal(s.Total), cli.FormatPercent(s.Percent))
		totals[month] = totals[month].Add(s.Total)
	}
	for i := range rows {
		rows[i][len(types)+1] = cli.FormatDecimal(totals[i])
	}

	if latest > 0 && latest < len(rows) {
		rows = rows[len(rows)-latest:]
	}

	headers := append([]string{"Month"}, types...)
	headers = append(headers, "Total")
	return cli.Table{Headers: headers, Rows: rows}
}

// trendTable summarises each type with a sparkline over its months.
func trendTable(series map[string]model.Series, types []string) cli.Table {
	var rows [][]string
	for _, t := range types {
		s := series[t]
		values := make([]float64, len(s.Points))
		sum := decimal.Zero
		for i, p := range s.Points {
			values[i] = p.Total.InexactFloat64()
			sum = sum.Add(p.Total)
		}
		avg := sum.Div(decimal.NewFromInt(int64(max(len(values), 1))))
		rows = append(rows, []string{t, fmt.Sprintf("%d", s.Len()), cli.FormatDecimal(avg), cli.RenderSparkline(values)})
	}
	return cli.Table{
		Title:   "Trend",
		Headers: []string{"Type", "Months", "Average", "History"},
		Rows:    rows,
		Left:    []bool{true, false, false, true},
	}
}
