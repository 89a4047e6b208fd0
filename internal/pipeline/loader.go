package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/source"
)

// SourceOptions maps the data config section onto parser options.
func SourceOptions(cfg config.DataConfig) source.Options {
	return source.Options{
		Delimiter:      cfg.DelimiterRune(),
		DateColumn:     cfg.DateColumn,
		CategoryColumn: cfg.CategoryColumn,
		ValueColumn:    cfg.ValueColumn,
		ExpensesOnly:   cfg.ExpensesOnly,
	}
}

// LoadResult holds the output of the loading stage.
type LoadResult struct {
	Rows        []model.Row
	Files       []source.DiscoveredFile
	TotalFiles  int
	ParsedFiles int
	Skipped     int
	Filtered    int
	Delimiter   rune
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every export under path. A single file is the
// common case; a directory of monthly exports is parsed with a bounded
// worker pool and concatenated in path order. Any file error is fatal and
// comes back as a *source.LoadError.
func Load(path string, opts source.Options, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.Discover(path)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{
		Files:      files,
		TotalFiles: len(files),
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx], opts)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	for _, pr := range results {
		if pr.Err != nil {
			return nil, pr.Err
		}
		result.ParsedFiles++
		result.Skipped += pr.Skipped
		result.Filtered += pr.Filtered
		result.Rows = append(result.Rows, pr.Rows...)
		if result.Delimiter == 0 {
			result.Delimiter = pr.Delimiter
		}
	}

	if len(result.Rows) == 0 {
		return nil, &source.LoadError{
			Path: path,
			Err:  fmt.Errorf("%d skipped, %d filtered: %w", result.Skipped, result.Filtered, source.ErrNoRows),
		}
	}

	return result, nil
}
