package logging

import (
	"io"

	hclog "github.com/hashicorp/go-hclog"
)

// New returns a named logger writing to w at the given level name.
// Unknown level names fall back to warn.
func New(name string, w io.Writer, level string) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: w,
		Level:  lvl,
	})
}

// OrNull substitutes a discarding logger for nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
