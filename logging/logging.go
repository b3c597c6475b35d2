// Package logging holds the process-wide structured logger used by the
// library packages. The CLI's own colored status lines are separate;
// this logger carries diagnostic records (file reads, rewrites, scans).
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	chlog "github.com/charmbracelet/log"
)

// EnvLevel names the environment variable holding the initial level.
const EnvLevel = "HERO_LOG_LEVEL"

var (
	mu     sync.Mutex
	logger *chlog.Logger
)

// Logger returns the shared logger, creating it on first use.
func Logger() *chlog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger(os.Stderr)
	}
	return logger
}

// For returns a child logger whose records are prefixed with component.
func For(component string) *chlog.Logger {
	return Logger().WithPrefix(component)
}

// SetOutput redirects the shared logger. Tests use it to capture output.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}

// SetLevel changes the level at runtime. Unknown names are ignored and
// reported as false.
func SetLevel(level string) bool {
	lvl, ok := parseLevel(level)
	if !ok {
		return false
	}
	Logger().SetLevel(lvl)
	return true
}

func newLogger(w io.Writer) *chlog.Logger {
	l := chlog.New(w)
	l.SetTimeFormat(chlog.DefaultTimeFormat)
	l.SetReportTimestamp(true)
	lvl, ok := parseLevel(os.Getenv(EnvLevel))
	if !ok {
		lvl = chlog.WarnLevel
	}
	l.SetLevel(lvl)
	return l
}

func parseLevel(s string) (chlog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return chlog.DebugLevel, true
	case "info":
		return chlog.InfoLevel, true
	case "warn", "warning":
		return chlog.WarnLevel, true
	case "error":
		return chlog.ErrorLevel, true
	}
	return chlog.InfoLevel, false
}
