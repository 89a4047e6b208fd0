package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds the stderr logger. quiet keeps warnings and errors only;
// verbose enables debug output. level is the configured default.
func NewLogger(w io.Writer, level string, quiet, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	switch {
	case verbose:
		lvl = log.DebugLevel
	case quiet:
		lvl = log.WarnLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          "spendcast",
		Level:           lvl,
		ReportTimestamp: verbose,
	})
}
