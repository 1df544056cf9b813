// Package logging builds the charmbracelet logger shared by the planner,
// the alarm engine and the TUI. The TUI owns the terminal, so the logger
// writes to a file rather than stdout.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type Options struct {
	Writer io.Writer
	Level  string
}

func New(opts Options) *log.Logger {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	lvl, err := log.ParseLevel(opts.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	})
}

// OpenLogFile opens (or creates) the append-only log file at path.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o666)
}
