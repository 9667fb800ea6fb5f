// Package logging configures the process-wide phuslu logger. Engine packages
// never log; only the boundary (handlers, CLI, services) does.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Formats accepted by Setup.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New builds a logger writing to w. Unknown levels fall back to info.
func New(level, format string, w io.Writer) log.Logger {
	lvl := log.ParseLevel(strings.ToLower(level))
	if level == "" {
		lvl = log.InfoLevel
	}

	var writer log.Writer
	if strings.EqualFold(format, FormatJSON) {
		writer = &log.IOWriter{Writer: w}
	} else {
		writer = &log.ConsoleWriter{Writer: w, ColorOutput: false, QuoteString: true}
	}

	return log.Logger{
		Level:      lvl,
		TimeFormat: "15:04:05",
		Writer:     writer,
	}
}

// Setup replaces log.DefaultLogger, writing to stderr.
func Setup(level, format string) {
	log.DefaultLogger = New(level, format, os.Stderr)
}
