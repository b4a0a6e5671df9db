package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Verbosity is the number of -v flags given on the command line.
type Verbosity int

const (
	VerbosityQuiet Verbosity = iota // results and errors
	VerbosityInfo                   // -v: committed operations
	VerbosityDebug                  // -vv: integrity checks, diff stats, config
	VerbosityTrace                  // -vvv: every SQL statement
)

var current = VerbosityQuiet

// Current reports the verbosity the global logger was initialized with.
func Current() Verbosity { return current }

// TraceSQL reports whether storage should log the statements it runs.
func TraceSQL() bool { return current >= VerbosityTrace }

// Level maps the flag count to the lowest zap level that is emitted. Trace has
// no zap level of its own; it is debug plus TraceSQL.
func (v Verbosity) Level() zapcore.Level {
	switch {
	case v <= VerbosityQuiet:
		return zapcore.WarnLevel
	case v == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func (v Verbosity) String() string {
	if v <= VerbosityQuiet {
		return "quiet"
	}
	names := []string{"info", "debug", "trace"}
	n := min(int(v), len(names))
	return names[n-1] + " (-" + strings.Repeat("v", n) + ")"
}
