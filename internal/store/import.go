package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/source"
)

// ImportOptions controls how the export becomes the data table and views.
type ImportOptions struct {
	Delimiter      rune // 0 sniffs the header line
	DateColumn     string
	CategoryColumn string
	ValueColumn    string
	ExpensesOnly   bool     // monthly view keeps only negative values
	Categories     []string // allow-list for the type_shares view
}

// ImportOptionsFromConfig builds import options from the data and
// forecast config sections.
func ImportOptionsFromConfig(cfg config.Config) ImportOptions {
	return ImportOptions{
		Delimiter:      cfg.Data.DelimiterRune(),
		DateColumn:     cfg.Data.DateColumn,
		CategoryColumn: cfg.Data.CategoryColumn,
		ValueColumn:    cfg.Data.ValueColumn,
		ExpensesOnly:   cfg.Data.ExpensesOnly,
		Categories:     cfg.Forecast.Categories,
	}
}

// ImportResult describes what Import did.
type ImportResult struct {
	Rows    int
	Columns []string
	Cached  bool // file unchanged since the last import
}

// Import loads the CSV at path into the data table, replacing any previous
// import, and rebuilds the helper views. With an on-disk database an
// unchanged file (same mtime and size) is not re-read.
func (d *DB) Import(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &source.LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &source.LoadError{Path: path, Err: errors.New("query dashboard needs a single file, got a directory")}
	}

	if tracked, ok, err := d.tracked(ctx, path); err != nil {
		return nil, err
	} else if ok && tracked.MtimeNs == info.ModTime().UnixNano() && tracked.SizeBytes == info.Size() {
		cols, err := d.columns(ctx, DataTable)
		if err == nil && len(cols) > 0 {
			if err := d.createViews(ctx, cols, opts); err != nil {
				return nil, err
			}
			return &ImportResult{Rows: tracked.RowCount, Columns: cols, Cached: true}, nil
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen input file
	if err != nil {
		return nil, &source.LoadError{Path: path, Err: err}
	}

	tbl, err := readTable(path, data, opts)
	if err != nil {
		return nil, err
	}

	if err := d.writeTable(ctx, tbl); err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	if err := d.createViews(ctx, tbl.header, opts); err != nil {
		return nil, err
	}

	_, err = d.db.ExecContext(ctx, `INSERT OR REPLACE INTO file_tracker
		(file_path, mtime_ns, size_bytes, table_name, row_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		path, info.ModTime().UnixNano(), info.Size(), DataTable, len(tbl.rows),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("tracking %s: %w", path, err)
	}

	return &ImportResult{Rows: len(tbl.rows), Columns: tbl.header}, nil
}

// FileInfo holds the tracked state of an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
	RowCount  int
}

func (d *DB) tracked(ctx context.Context, path string) (FileInfo, bool, error) {
	var fi FileInfo
	err := d.db.QueryRowContext(ctx,
		"SELECT mtime_ns, size_bytes, row_count FROM file_tracker WHERE file_path = ?", path,
	).Scan(&fi.MtimeNs, &fi.SizeBytes, &fi.RowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return fi, false, nil
	}
	if err != nil {
		return fi, false, err
	}
	return fi, true, nil
}

type table struct {
	header  []string
	numeric []bool
	rows    [][]any
}

func readTable(path string, data []byte, opts ImportOptions) (*table, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	delim := opts.Delimiter
	if delim == 0 {
		d, err := source.SniffDelimiter(bytes.NewReader(data))
		if err != nil {
			return nil, &source.LoadError{Path: path, Err: err}
		}
		delim = d
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = source.ErrNoRows
		}
		return nil, &source.LoadError{Path: path, Line: 1, Err: err}
	}
	header = uniqueColumns(header)

	var raw [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			le := &source.LoadError{Path: path, Err: err}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				le.Line = pe.Line
			}
			return nil, le
		}
		raw = append(raw, rec)
	}

	dateCol := indexFold(header, opts.DateColumn)
	tbl := &table{header: header, numeric: make([]bool, len(header))}
	for c := range header {
		tbl.numeric[c] = c != dateCol && numericColumn(raw, c)
	}

	tbl.rows = make([][]any, len(raw))
	for i, rec := range raw {
		vals := make([]any, len(header))
		for c := range header {
			if c >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[c])
			switch {
			case v == "":
				// NULL
			case tbl.numeric[c]:
				amt, _ := source.ParseAmount(v)
				vals[c] = amt.InexactFloat64()
			case c == dateCol:
				if t, ok := model.ParseDate(v); ok {
					vals[c] = t.Format("2006-01-02")
				} else {
					vals[c] = v
				}
			default:
				vals[c] = v
			}
		}
		tbl.rows[i] = vals
	}
	return tbl, nil
}

func numericColumn(raw [][]string, c int) bool {
	found := false
	for _, rec := range raw {
		if c >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[c])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			if _, err := source.ParseAmount(v); err != nil {
				return false
			}
		}
		found = true
	}
	return found
}

func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "col" + strconv.Itoa(i+1)
		}
		key := strings.ToLower(h)
		if n := seen[key]; n > 0 {
			h = h + "_" + strconv.Itoa(n+1)
		}
		seen[key]++
		out[i] = h
	}
	return out
}

func indexFold(cols []string, name string) int {
	for i, c := range cols {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

func (d *DB) writeTable(ctx context.Context, tbl *table) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	defs := make([]string, len(tbl.header))
	for i, h := range tbl.header {
		affinity := "TEXT"
		if tbl.numeric[i] {
			affinity = "REAL"
		}
		defs[i] = quoteIdent(h) + " " + affinity
	}

	stmts := []string{
		"DROP VIEW IF EXISTS " + quoteIdent(SharesView),
		"DROP VIEW IF EXISTS " + quoteIdent(MonthlyView),
		"DROP TABLE IF EXISTS " + quoteIdent(DataTable),
		"CREATE TABLE " + quoteIdent(DataTable) + " (" + strings.Join(defs, ", ") + ")",
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tbl.header)), ", ")
	ins, err := tx.PrepareContext(ctx, "INSERT INTO "+quoteIdent(DataTable)+" VALUES ("+placeholders+")")
	if err != nil {
		return err
	}
	defer func() { _ = ins.Close() }()

	for _, row := range tbl.rows {
		if _, err := ins.ExecContext(ctx, row...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// createViews rebuilds the monthly and type_shares views. They mirror the
// forecast pipeline: month totals per category, then per type with each
// type's percentage of the month. Views are skipped when the configured
// columns are absent.
func (d *DB) createViews(ctx context.Context, cols []string, opts ImportOptions) error {
	for _, v := range []string{SharesView, MonthlyView} {
		if _, err := d.db.ExecContext(ctx, "DROP VIEW IF EXISTS "+quoteIdent(v)); err != nil {
			return err
		}
	}

	di, ci, vi := indexFold(cols, opts.DateColumn), indexFold(cols, opts.CategoryColumn), indexFold(cols, opts.ValueColumn)
	if di < 0 || ci < 0 || vi < 0 {
		return nil
	}
	date, cat, val := quoteIdent(cols[di]), quoteIdent(cols[ci]), quoteIdent(cols[vi])

	monthExpr := "strftime('%Y-%m-01', " + date + ")"
	where := monthExpr + " IS NOT NULL"
	if opts.ExpensesOnly {
		where += " AND " + val + " < 0"
	}
	monthly := fmt.Sprintf(`CREATE VIEW %s AS
		SELECT %s AS month, %s AS category, SUM(%s) AS total
		FROM %s WHERE %s
		GROUP BY 1, 2`,
		quoteIdent(MonthlyView), monthExpr, cat, val, quoteIdent(DataTable), where)
	if _, err := d.db.ExecContext(ctx, monthly); err != nil {
		return fmt.Errorf("creating %s view: %w", MonthlyView, err)
	}

	typeExpr := "'Others'"
	if len(opts.Categories) > 0 {
		quoted := make([]string, len(opts.Categories))
		for i, c := range opts.Categories {
			quoted[i] = quoteString(c)
		}
		typeExpr = "CASE WHEN category IN (" + strings.Join(quoted, ", ") + ") THEN category ELSE 'Others' END"
	}
	shares := fmt.Sprintf(`CREATE VIEW %s AS
		WITH t AS (
			SELECT month, %s AS type, SUM(total) AS total
			FROM %s GROUP BY 1, 2
		)
		SELECT month, type, total,
		       ROUND(100.0 * total / NULLIF(SUM(total) OVER (PARTITION BY month), 0), 2) AS percent_share
		FROM t ORDER BY month, type`,
		quoteIdent(SharesView), typeExpr, quoteIdent(MonthlyView))
	if _, err := d.db.ExecContext(ctx, shares); err != nil {
		return fmt.Errorf("creating %s view: %w", SharesView, err)
	}
	return nil
}
