// Package logging builds the pterm structured logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// New returns a logger writing to w at the given level ("debug", "info",
// "warn" or "error"). format "json" switches to the JSON formatter.
func New(level, format string, w io.Writer) (*pterm.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
	if strings.EqualFold(format, "json") {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	return logger, nil
}

// ParseLevel maps a level name to a pterm level
func ParseLevel(level string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	default:
		return pterm.LogLevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Discard is a logger that drops everything
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard)
}
