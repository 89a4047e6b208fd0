package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/theirongolddev/spendcast/internal/model"
)

// ParseFile reads one delimited file into rows. Rows whose date or amount
// cannot be read are skipped and counted; structural problems return a
// LoadError in ParseResult.Err.
func ParseFile(df DiscoveredFile, opts Options) ParseResult {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return ParseResult{Err: &LoadError{Path: df.Path, Err: err}}
	}
	return Parse(df.Path, data, opts)
}

// Parse reads rows from an in-memory export. name is used in errors.
func Parse(name string, data []byte, opts Options) ParseResult {
	if hasBOM(data) {
		data = data[len(bom):]
	}

	delim := opts.Delimiter
	if delim == 0 {
		d, err := SniffDelimiter(bytes.NewReader(data))
		if err != nil {
			return ParseResult{Err: &LoadError{Path: name, Err: err}}
		}
		delim = d
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("empty file: %w", ErrNoRows)
		}
		return ParseResult{Err: &LoadError{Path: name, Line: 1, Err: err}}
	}

	cols, err := locateColumns(header, opts)
	if err != nil {
		return ParseResult{Err: &LoadError{Path: name, Line: 1, Err: err}}
	}

	res := ParseResult{Delimiter: delim}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			le := &LoadError{Path: name, Err: err}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				le.Line = pe.Line
			}
			return ParseResult{Err: le}
		}
		if cols.max >= len(rec) {
			res.Skipped++
			continue
		}

		month, ok := model.ParseMonth(rec[cols.date])
		if !ok {
			res.Skipped++
			continue
		}
		amount, err := ParseAmount(rec[cols.value])
		if err != nil {
			res.Skipped++
			continue
		}
		if opts.ExpensesOnly && !amount.IsNegative() {
			res.Filtered++
			continue
		}

		res.Rows = append(res.Rows, model.Row{
			Month:    month,
			Category: strings.TrimSpace(rec[cols.category]),
			Amount:   amount,
		})
	}

	return res
}

type columnIndex struct {
	date, category, value int
	max                   int
}

func locateColumns(header []string, opts Options) (columnIndex, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		date:     find(opts.DateColumn),
		category: find(opts.CategoryColumn),
		value:    find(opts.ValueColumn),
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, opts.DateColumn)
	}
	if idx.category < 0 {
		missing = append(missing, opts.CategoryColumn)
	}
	if idx.value < 0 {
		missing = append(missing, opts.ValueColumn)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing column(s) %s in header %q", strings.Join(missing, ", "), header)
	}

	idx.max = max(idx.date, idx.category, idx.value)
	return idx, nil
}

// Categories returns the distinct raw categories in rows, sorted.
func Categories(rows []model.Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
