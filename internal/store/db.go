// Package store runs ad-hoc SQL over the expense export using an embedded
// SQLite engine. By default the database lives in memory for the life of the
// process; an on-disk cache skips re-importing an unchanged file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/spendcast/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DB wraps the SQLite handle used by the query dashboard.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens the database. An empty path opens a private in-memory database;
// otherwise the file is created in WAL mode.
func Open(dbPath string) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)
	if dbPath == "" {
		db, err = sql.Open("sqlite", ":memory:")
		if err == nil {
			// Every pooled connection to :memory: is a separate database.
			db.SetMaxOpenConns(1)
		}
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(dbPath), 0o750); mkErr != nil {
			return nil, fmt.Errorf("creating cache dir: %w", mkErr)
		}
		db, err = sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	}
	if err != nil {
		return nil, fmt.Errorf("opening query db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db, path: dbPath}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// InMemory reports whether the database is process-local.
func (d *DB) InMemory() bool { return d.path == "" }

// Query runs one statement and returns at most limit rows (0 means no limit).
// A "month" column is normalised to YYYY-MM and rows with an unparseable
// month are dropped before the limit applies.
func (d *DB) Query(ctx context.Context, sqlText string, limit int) (*model.QueryResult, error) {
	sqlText = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sqlText), ";"))
	if sqlText == "" {
		return nil, fmt.Errorf("empty query")
	}

	rows, err := d.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &model.QueryResult{
		Columns: cols,
		Numeric: make([]bool, len(cols)),
	}
	monthCol := res.Column("month")
	seen := make([]bool, len(cols))
	for i := range res.Numeric {
		res.Numeric[i] = true
	}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		if monthCol >= 0 && !model.NormalizeMonthCell(vals, monthCol) {
			continue
		}

		if limit > 0 && len(res.Rows) >= limit {
			res.Truncated = true
			break
		}

		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				continue
			case []byte:
				vals[i] = string(x)
				res.Numeric[i] = false
			case int64, float64:
			default:
				res.Numeric[i] = false
			}
			seen[i] = true
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// All-null columns are not charted.
	for i := range res.Numeric {
		if !seen[i] {
			res.Numeric[i] = false
		}
	}
	if monthCol >= 0 {
		res.Numeric[monthCol] = false
	}
	return res, nil
}

// TableInfo names a queryable table or view.
type TableInfo struct {
	Name    string
	Kind    string // "table" or "view"
	Columns []string
}

// Tables lists user tables and views with their columns.
func (d *DB) Tables(ctx context.Context) ([]TableInfo, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		  AND name NOT IN ('file_tracker', 'query_history')
		ORDER BY type, name`)
	if err != nil {
		return nil, err
	}

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Kind); err != nil {
			_ = rows.Close()
			return nil, err
		}
		tables = append(tables, t)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tables {
		cols, err := d.columns(ctx, tables[i].Name)
		if err != nil {
			return nil, err
		}
		tables[i].Columns = cols
	}
	return tables, nil
}

func (d *DB) columns(ctx context.Context, table string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// HistoryEntry is one recorded query.
type HistoryEntry struct {
	SQL      string
	RanAt    time.Time
	RowCount int
	Failed   bool
}

// SaveQuery records a query run. Repeating the latest entry is a no-op.
func (d *DB) SaveQuery(ctx context.Context, sqlText string, rowCount int, failed bool) error {
	var last string
	err := d.db.QueryRowContext(ctx, "SELECT sql_text FROM query_history ORDER BY id DESC LIMIT 1").Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if last == sqlText {
		return nil
	}

	_, err = d.db.ExecContext(ctx,
		"INSERT INTO query_history (sql_text, ran_at, row_count, failed) VALUES (?, ?, ?, ?)",
		sqlText, time.Now().UTC().Format(time.RFC3339), rowCount, boolToInt(failed))
	return err
}

// RecentQueries returns up to limit queries, newest first.
func (d *DB) RecentQueries(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT sql_text, ran_at, row_count, failed FROM query_history ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e      HistoryEntry
			ranAt  string
			failed int
		)
		if err := rows.Scan(&e.SQL, &ranAt, &e.RowCount, &failed); err != nil {
			return nil, err
		}
		e.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		e.Failed = failed != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
