// Package source discovers and parses delimited expense exports.
package source

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/spendcast/internal/model"
)

// ErrNoRows is wrapped by a LoadError when nothing usable was read.
var ErrNoRows = errors.New("no usable rows")

// LoadError means the input could not be turned into rows. It is fatal for
// the run: there is no dashboard without data.
type LoadError struct {
	Path string
	Line int // 0 when not tied to a line
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options describes how to read the export.
type Options struct {
	Delimiter      rune // 0 sniffs the header line
	DateColumn     string
	CategoryColumn string
	ValueColumn    string
	ExpensesOnly   bool // keep only negative amounts
}

// DefaultOptions matches the bank export layout: Date;category;value.
func DefaultOptions() Options {
	return Options{
		Delimiter:      ';',
		DateColumn:     "Date",
		CategoryColumn: "category",
		ValueColumn:    "value",
		ExpensesOnly:   true,
	}
}

// DiscoveredFile is one input file found by Discover.
type DiscoveredFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// ParseResult holds the output of parsing a single file.
type ParseResult struct {
	Rows      []model.Row
	Delimiter rune
	Skipped   int // rows with a missing or unparseable date or amount
	Filtered  int // rows dropped by ExpensesOnly
	Err       error
}
