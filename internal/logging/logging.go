// Package logging builds the structured loggers used across latestlayer.
package logging

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options configures a logger.
type Options struct {
	Prefix string
	Level  string // see ParseLevel; empty means info
	Format string // FormatJSON (default) or FormatText
}

// levelAliases accepts the level names and numbers operators commonly
// export in LOG_LEVEL, on top of the names charmbracelet/log knows.
var levelAliases = map[string]log.Level{
	"warning":  log.WarnLevel,
	"critical": log.ErrorLevel,
	"notset":   log.DebugLevel,
	"10":       log.DebugLevel,
	"20":       log.InfoLevel,
	"30":       log.WarnLevel,
	"40":       log.ErrorLevel,
	"50":       log.ErrorLevel,
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	if lvl, ok := levelAliases[s]; ok {
		return lvl, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		return 0, fmt.Errorf("unsupported numeric log level %q", s)
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case "", FormatJSON, FormatText:
		return true
	}
	return false
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if !ValidFormat(opts.Format) {
		return nil, fmt.Errorf("invalid log format %q: must be %s or %s", opts.Format, FormatJSON, FormatText)
	}

	formatter := log.JSONFormatter
	if opts.Format == FormatText {
		formatter = log.TextFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          opts.Prefix,
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
