package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/spendcast/internal/chart"
	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagQueryChart string
	flagQueryX     string
	flagQueryY     []string
	flagLimit      int
	flagSchema     bool
	flagHistory    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Run SQL over the export (tables: data, monthly, type_shares)",
	Example: `  spendcast query "SELECT category, SUM(value) AS total FROM data GROUP BY category" --chart bar
  spendcast query "SELECT * FROM type_shares" --chart area`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&flagQueryChart, "chart", "none", "Chart type: none, bar, line or area")
	queryCmd.Flags().StringVar(&flagQueryX, "x", "", "Column for the x axis (default first text column)")
	queryCmd.Flags().StringArrayVar(&flagQueryY, "y", nil, "Numeric column to plot; repeatable (default all numeric)")
	queryCmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum rows returned (default from config)")
	queryCmd.Flags().BoolVar(&flagSchema, "schema", false, "List tables and views instead of running a query")
	queryCmd.Flags().BoolVar(&flagHistory, "history", false, "List recent queries")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	kind, err := chart.ParseKind(flagQueryChart)
	if err != nil {
		return err
	}

	sqlText := strings.TrimSpace(strings.Join(args, " "))
	if sqlText == "" {
		sqlText = appCfg.Query.DefaultSQL
	}
	limit := appCfg.Query.RowLimit
	if flagLimit > 0 {
		limit = flagLimit
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	imp, err := db.Import(ctx, appCfg.Data.Path, store.ImportOptionsFromConfig(appCfg))
	if err != nil {
		return err
	}
	logger.Debug("imported", "rows", imp.Rows, "columns", len(imp.Columns), "cached", imp.Cached)

	if flagSchema {
		return printSchema(cmd, db)
	}
	if flagHistory {
		return printHistory(cmd, db)
	}

	res, qerr := db.Query(ctx, sqlText, limit)
	rowCount := 0
	if res != nil {
		rowCount = len(res.Rows)
	}
	if err := db.SaveQuery(ctx, sqlText, rowCount, qerr != nil); err != nil {
		logger.Debug("saving query history", "err", err)
	}
	if qerr != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError("Query failed: "+qerr.Error()))
		return errReported
	}

	fmt.Println()
	if len(res.Rows) == 0 {
		fmt.Println("  Query returned no rows.")
		return nil
	}

	fmt.Print(cli.RenderTable(resultTable(res)))
	if res.Truncated {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Showing the first %d rows; use --limit for more.", len(res.Rows))))
	}

	if kind != chart.None {
		axes, err := chart.QueryAxes(res, flagQueryX, flagQueryY)
		if err != nil {
			fmt.Println(cli.RenderWarning("No chart: " + err.Error()))
			return nil
		}
		if share, ok := chart.SharePlot(res); ok {
			printQueryChart(chart.ShareTitle, share)
		}
		printQueryChart(fmt.Sprintf("%s by %s", strings.Join(axes.Ys, ", "), axes.X), chart.FromQuery(res, kind, axes))
	}

	return nil
}

func printQueryChart(title string, p chart.Plot) {
	p.Width = chartWidth
	p.Height = chartHeight
	out := cli.RenderChart(p)
	if out == "" {
		return
	}
	fmt.Println()
	fmt.Println(cli.RenderMuted("  " + title))
	fmt.Print(out)
}

func resultTable(res *model.QueryResult) cli.Table {
	left := make([]bool, len(res.Columns))
	for i := range left {
		left[i] = !res.Numeric[i]
	}
	rows := make([][]string, len(res.Rows))
	for r := range res.Rows {
		row := make([]string, len(res.Columns))
		for c := range res.Columns {
			row[c] = res.Cell(r, c)
		}
		rows[r] = row
	}
	return cli.Table{Headers: res.Columns, Rows: rows, Left: left}
}

func printSchema(cmd *cobra.Command, db *store.DB) error {
	tables, err := db.Tables(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, []string{t.Name, t.Kind, strings.Join(t.Columns, ", ")})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Name", "Kind", "Columns"},
		Rows:    rows,
		Left:    []bool{true, true, true},
	}))
	return nil
}

func printHistory(cmd *cobra.Command, db *store.DB) error {
	entries, err := db.RecentQueries(cmd.Context(), 20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		msg := "  No queries recorded."
		if db.InMemory() {
			msg += " Enable [query] cache in the config to keep history."
		}
		fmt.Println(msg)
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := cli.FormatNumber(int64(e.RowCount)) + " rows"
		if e.Failed {
			status = "failed"
		}
		rows = append(rows, []string{e.RanAt.Local().Format("2006-01-02 15:04"), status, e.SQL})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Ran", "Result", "SQL"},
		Rows:    rows,
		Left:    []bool{true, false, true},
	}))
	return nil
}
