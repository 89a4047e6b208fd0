package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeCSV(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOptions() ImportOptions {
	return ImportOptions{
		Delimiter:      ';',
		DateColumn:     "Date",
		CategoryColumn: "category",
		ValueColumn:    "value",
		ExpensesOnly:   true,
		Categories:     []string{"Fun", "Necessities"},
	}
}

var sample = []string{
	"Date;category;value;note",
	"2023-01-05;Fun;-50;cinema",
	"2023-01-20;Groceries;-30,5;market",
	"2023-01-25;Salary;2000;",
	"17/02/2023;Necessities;-100;rent",
	"2023-02-11;Fun;-25;bar",
}

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestImportAndQuery(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	path := writeCSV(t, t.TempDir(), sample...)

	res, err := db.Import(ctx, path, testOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Rows != 5 {
		t.Fatalf("Rows = %d, want 5", res.Rows)
	}
	if res.Cached {
		t.Fatal("first import reported cached")
	}

	qr, err := db.Query(ctx, "SELECT category, SUM(value) AS total FROM data GROUP BY category ORDER BY category;", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(qr.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(qr.Rows))
	}
	if qr.Numeric[0] || !qr.Numeric[1] {
		t.Fatalf("Numeric = %v, want [false true]", qr.Numeric)
	}
	if got := qr.Float(0, 1); got != -75 {
		t.Fatalf("Fun total = %v, want -75", got)
	}
	if got := qr.Float(1, 1); got != -30.5 {
		t.Fatalf("Groceries total = %v, want -30.5", got)
	}
}

func TestMonthlyView(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	if _, err := db.Import(ctx, writeCSV(t, t.TempDir(), sample...), testOptions()); err != nil {
		t.Fatalf("Import: %v", err)
	}

	qr, err := db.Query(ctx, "SELECT month, category, total FROM monthly ORDER BY month, category", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	// Salary is income and excluded.
	if len(qr.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(qr.Rows))
	}
	if got := qr.Cell(0, 0); got != "2023-01" {
		t.Fatalf("month = %q, want 2023-01 (normalised)", got)
	}
	if got := qr.Cell(2, 0); got != "2023-02" {
		t.Fatalf("DD/MM/YYYY date not normalised: month = %q", got)
	}
}

func TestSharesView(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	if _, err := db.Import(ctx, writeCSV(t, t.TempDir(), sample...), testOptions()); err != nil {
		t.Fatalf("Import: %v", err)
	}

	qr, err := db.Query(ctx, "SELECT * FROM type_shares WHERE month = '2023-01-01'", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if qr.Column("percent_share") < 0 || qr.Column("type") < 0 {
		t.Fatalf("columns = %v", qr.Columns)
	}
	var sum float64
	types := map[string]bool{}
	for i := range qr.Rows {
		sum += qr.Float(i, qr.Column("percent_share"))
		types[qr.Cell(i, qr.Column("type"))] = true
	}
	if sum < 99.9 || sum > 100.1 {
		t.Fatalf("shares sum to %v, want 100", sum)
	}
	if !types["Fun"] || !types["Others"] || len(types) != 2 {
		t.Fatalf("types = %v, want Fun and Others", types)
	}
}

func TestQueryLimitAndErrors(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	if _, err := db.Import(ctx, writeCSV(t, t.TempDir(), sample...), testOptions()); err != nil {
		t.Fatalf("Import: %v", err)
	}

	qr, err := db.Query(ctx, "SELECT * FROM data", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(qr.Rows) != 2 || !qr.Truncated {
		t.Fatalf("rows = %d truncated = %v, want 2 true", len(qr.Rows), qr.Truncated)
	}

	if _, err := db.Query(ctx, "SELECT * FROM nope", 0); err == nil {
		t.Fatal("query on missing table succeeded")
	}
	if _, err := db.Query(ctx, "  ; ", 0); err == nil {
		t.Fatal("empty query succeeded")
	}
}

func TestQueryLimitCountsValidMonthsOnly(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	const q = `SELECT column1 AS month, column2 AS total
		FROM (VALUES ('2024-01', 1), ('not a month', 2), ('2024-02-15', 3))`

	qr, err := db.Query(ctx, q, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(qr.Rows) != 2 || qr.Truncated {
		t.Fatalf("rows = %d truncated = %v, want 2 false", len(qr.Rows), qr.Truncated)
	}
	if got := qr.Cell(1, 0); got != "2024-02" {
		t.Fatalf("second month = %q, want 2024-02", got)
	}
	if qr.Numeric[0] || !qr.Numeric[1] {
		t.Fatalf("Numeric = %v, want [false true]", qr.Numeric)
	}

	qr, err = db.Query(ctx, q, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(qr.Rows) != 1 || !qr.Truncated {
		t.Fatalf("rows = %d truncated = %v, want 1 true", len(qr.Rows), qr.Truncated)
	}
}

func TestImportCachedOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cache", "query.db")
	csvPath := writeCSV(t, dir, sample...)

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.Import(ctx, csvPath, testOptions()); err != nil {
		t.Fatalf("Import: %v", err)
	}
	_ = db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	res, err := db.Import(ctx, csvPath, testOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !res.Cached || res.Rows != 5 {
		t.Fatalf("second import = %+v, want cached with 5 rows", res)
	}

	// A changed file is re-imported.
	more := append(append([]string{}, sample...), "2023-03-01;Fun;-1;extra")
	writeCSV(t, dir, more...)
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(csvPath, future, future); err != nil {
		t.Fatal(err)
	}
	res, err = db.Import(ctx, csvPath, testOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Cached || res.Rows != 6 {
		t.Fatalf("third import = %+v, want fresh with 6 rows", res)
	}
}

func TestTablesAndHistory(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	if _, err := db.Import(ctx, writeCSV(t, t.TempDir(), sample...), testOptions()); err != nil {
		t.Fatalf("Import: %v", err)
	}

	tables, err := db.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	names := map[string]int{}
	for _, tb := range tables {
		names[tb.Name] = len(tb.Columns)
	}
	if names[DataTable] != 4 || names[MonthlyView] != 3 || names[SharesView] != 4 {
		t.Fatalf("tables = %v", names)
	}
	if _, ok := names["file_tracker"]; ok {
		t.Fatal("internal table listed")
	}

	for _, q := range []string{"SELECT 1", "SELECT 1", "SELECT 2"} {
		if err := db.SaveQuery(ctx, q, 1, false); err != nil {
			t.Fatalf("SaveQuery: %v", err)
		}
	}
	hist, err := db.RecentQueries(ctx, 10)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if len(hist) != 2 || hist[0].SQL != "SELECT 2" {
		t.Fatalf("history = %+v, want [SELECT 2, SELECT 1]", hist)
	}
}

func TestUniqueColumns(t *testing.T) {
	got := uniqueColumns([]string{"a", "", "A", "b"})
	want := []string{"a", "col2", "A_2", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("uniqueColumns = %v, want %v", got, want)
		}
	}
}
