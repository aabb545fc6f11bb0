// Package gridlog configures the daemon's structured logger. Debug mode
// (-d/--debug) is the only thing that changes: it lowers the level to
// slog.LevelDebug so transient I/O errors become visible.
package gridlog

import (
	"log/slog"
	"os"
)

// New returns a text-handler slog.Logger writing to stderr at Info level,
// or Debug level when debug is true.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
