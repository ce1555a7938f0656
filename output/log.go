package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// LevelForVerbosity maps a -v count to a log level.
// 0 shows errors only, 1 adds warnings, 2 info, 3 and above debug.
func LevelForVerbosity(v int) log.Level {
	switch {
	case v <= 0:
		return log.ErrorLevel
	case v == 1:
		return log.WarnLevel
	case v == 2:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

// NewLogger creates the logger handle threaded through the run.
// A nil writer logs to stderr.
func NewLogger(w io.Writer, verbosity int) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	debug := verbosity >= 3
	return log.NewWithOptions(w, log.Options{
		Level:           LevelForVerbosity(verbosity),
		ReportTimestamp: debug,
		ReportCaller:    debug,
		Prefix:          "nest",
	})
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
