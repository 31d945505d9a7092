package cli

import (
	"io"
	"log/slog"
)

// initTrace initializes the logger.
// Logs go to w (stderr) so that stdout only carries command results.
func initTrace(debugLevel string, w io.Writer) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch debugLevel {
	case "debug":
		handlerOptions.Level = slog.LevelDebug
		handlerOptions.AddSource = true
	case "info":
		handlerOptions.Level = slog.LevelInfo
	case "warn":
		handlerOptions.Level = slog.LevelWarn
	case "error":
		handlerOptions.Level = slog.LevelError
	default:
		handlerOptions.Level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, handlerOptions)
	return slog.New(handler)
}
