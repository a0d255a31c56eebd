package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log is the package-wide structured logger. It is usable before Init so
// library code and tests never hit a nil logger.
var Log = New(os.Stdout, slog.LevelInfo)

// New builds a JSON slog.Logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Init reconfigures the package logger for production use and installs it
// as the process default.
func Init() {
	Log = New(os.Stdout, slog.LevelDebug)
	slog.SetDefault(Log)
}
