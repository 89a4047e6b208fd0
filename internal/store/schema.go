package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    table_name           TEXT NOT NULL,
    row_count            INTEGER NOT NULL,
    imported_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS query_history (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    sql_text             TEXT NOT NULL,
    ran_at               TEXT NOT NULL,
    row_count            INTEGER NOT NULL DEFAULT 0,
    failed               INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_query_history_ran ON query_history(ran_at);
`

// DataTable is the table the CSV is imported into.
const DataTable = "data"

// Views created over DataTable on every import.
const (
	MonthlyView = "monthly"
	SharesView  = "type_shares"
)
